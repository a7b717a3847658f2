// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dense

import "errors"

var (
	// ErrInvalidDimensions reports a constructor called with a negative
	// or otherwise unusable shape.
	ErrInvalidDimensions = errors.New("dense: dimensions must not be negative")

	// ErrIndexOutOfRange reports an element access outside [0, length).
	// Accessors panic with this value since an out-of-range index is a
	// programmer error, not a recoverable condition.
	ErrIndexOutOfRange = errors.New("dense: index out of range")

	// ErrDimensionMismatch reports an operation on operands whose
	// shapes disagree.
	ErrDimensionMismatch = errors.New("dense: dimension mismatch")
)
