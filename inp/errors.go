// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/io"

// FieldError reports a missing or invalid field of an input record
type FieldError struct {
	Record string // record; e.g. "solver.cbs", "materials[2]"
	Field  string // field name; e.g. "deltat"
	Msg    string // optional explanation
}

func (o *FieldError) Error() string {
	if o.Msg == "" {
		return io.Sf("input record %q: field %q is missing", o.Record, o.Field)
	}
	return io.Sf("input record %q: field %q %s", o.Record, o.Field, o.Msg)
}

// missing returns a FieldError for a missing field
func missing(record, field string) error {
	return &FieldError{Record: record, Field: field}
}

// invalid returns a FieldError for an invalid field
func invalid(record, field, msg string, args ...interface{}) error {
	return &FieldError{Record: record, Field: field, Msg: io.Sf(msg, args...)}
}
