// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Keycode extracts the value of key from extra strings such as "!nsta:11 !thick:0.2". The
// exclamation mark is optional
func Keycode(extra, key string) (val string, found bool) {
	for _, tok := range strings.Fields(extra) {
		tok = strings.TrimPrefix(tok, "!")
		k, v, ok := strings.Cut(tok, ":")
		if !ok || k != key {
			continue
		}
		return v, true
	}
	return
}

// KeycodeFloat returns the float value of key in extra or dflt if key is not present
func KeycodeFloat(extra, key string, dflt float64) (val float64, err error) {
	s, found := Keycode(extra, key)
	if !found {
		return dflt, nil
	}
	val, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, chk.Err("cannot parse %q in extra string %q", key, extra)
	}
	return
}

// KeycodeInt returns the integer value of key in extra or dflt if key is not present
func KeycodeInt(extra, key string, dflt int) (val int, err error) {
	s, found := Keycode(extra, key)
	if !found {
		return dflt, nil
	}
	val, err = strconv.Atoi(s)
	if err != nil {
		return 0, chk.Err("cannot parse %q in extra string %q", key, extra)
	}
	return
}
