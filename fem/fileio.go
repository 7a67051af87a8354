// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// GetEncoder returns a new encoder; enctype is "gob" or "json"
func GetEncoder(w goio.Writer, enctype string) utl.Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder; enctype is "gob" or "json"
func GetDecoder(r goio.Reader, enctype string) utl.Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// saveFile saves the contents of buf to file fn, creating its directory if needed
func saveFile(fn string, buf *bytes.Buffer, verbose bool) (err error) {
	err = os.MkdirAll(filepath.Dir(fn), 0777)
	if err != nil {
		return chk.Err("cannot create directory for %q:\n%v", fn, err)
	}
	fil, err := os.Create(fn)
	if err != nil {
		return chk.Err("cannot create file %q:\n%v", fn, err)
	}
	defer func() {
		if e := fil.Close(); e != nil && err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if err != nil {
		return chk.Err("cannot write file %q:\n%v", fn, err)
	}
	if verbose {
		io.Pf("file <%s> written\n", fn)
	}
	return
}

// outSumPath returns the path of the summary file
func outSumPath(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

// outCtxPath returns the path of the checkpoint file of step number stp
func outCtxPath(dir, fnkey, enctype string, stp int) string {
	return filepath.Join(dir, io.Sf("%s_ctx_%06d.%s", fnkey, stp, enctype))
}
