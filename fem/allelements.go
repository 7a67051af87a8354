// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

// import all elements
import (
	_ "github.com/fluxfem/fluxfem/ele/cohesive"
	_ "github.com/fluxfem/fluxfem/ele/fluid"
	_ "github.com/fluxfem/fluxfem/ele/solid"
	_ "github.com/fluxfem/fluxfem/ele/thermal"
)
