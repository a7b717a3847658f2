// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dense provides fixed-shape dense float64 containers with
// bounds-checked indexing and element-wise arithmetic.
//
// A Vector or Matrix owns its elements exclusively: constructors copy the
// caller's buffer and no operation aliases another container. The shape is
// fixed for the lifetime of the object, there is no implicit resizing.
package dense

import "math"

// Vector is an ordered sequence of float64 with fixed length.
type Vector struct {
	data []float64
}

// NewVector returns a zero-initialized vector of length n.
func NewVector(n int) (*Vector, error) {
	if n < 0 {
		return nil, ErrInvalidDimensions
	}
	return &Vector{data: make([]float64, n)}, nil
}

// VectorOf returns a vector holding a copy of data.
func VectorOf(data []float64) *Vector {
	v := &Vector{data: make([]float64, len(data))}
	copy(v.data, data)
	return v
}

// Len returns the number of elements.
func (v *Vector) Len() int { return len(v.data) }

// At returns the i-th element.
// It panics with ErrIndexOutOfRange unless 0 ≤ i < Len().
func (v *Vector) At(i int) float64 {
	if uint(i) >= uint(len(v.data)) {
		panic(ErrIndexOutOfRange)
	}
	return v.data[i]
}

// Set stores x as the i-th element.
// It panics with ErrIndexOutOfRange unless 0 ≤ i < Len().
func (v *Vector) Set(i int, x float64) {
	if uint(i) >= uint(len(v.data)) {
		panic(ErrIndexOutOfRange)
	}
	v.data[i] = x
}

// Clone returns an independent copy of v.
func (v *Vector) Clone() *Vector {
	return VectorOf(v.data)
}

// Raw returns a copy of the backing elements.
func (v *Vector) Raw() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

// Add returns v + u element-wise.
func (v *Vector) Add(u *Vector) (*Vector, error) {
	if len(v.data) != len(u.data) {
		return nil, ErrDimensionMismatch
	}
	r := &Vector{data: make([]float64, len(v.data))}
	for i, x := range v.data {
		r.data[i] = x + u.data[i]
	}
	return r, nil
}

// Sub returns v - u element-wise.
func (v *Vector) Sub(u *Vector) (*Vector, error) {
	if len(v.data) != len(u.data) {
		return nil, ErrDimensionMismatch
	}
	r := &Vector{data: make([]float64, len(v.data))}
	for i, x := range v.data {
		r.data[i] = x - u.data[i]
	}
	return r, nil
}

// Scale returns a·v.
func (v *Vector) Scale(a float64) *Vector {
	r := &Vector{data: make([]float64, len(v.data))}
	for i, x := range v.data {
		r.data[i] = a * x
	}
	return r
}

// Dot returns the inner product vᵀu.
func (v *Vector) Dot(u *Vector) (float64, error) {
	if len(v.data) != len(u.data) {
		return 0, ErrDimensionMismatch
	}
	var dot float64
	for i, x := range v.data {
		dot += x * u.data[i]
	}
	return dot, nil
}

// Equal reports whether v and u have the same length and identical elements.
func (v *Vector) Equal(u *Vector) bool {
	if len(v.data) != len(u.data) {
		return false
	}
	for i, x := range v.data {
		if x != u.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether v and u have the same length and every
// element pair differs by at most tol.
func (v *Vector) EqualApprox(u *Vector, tol float64) bool {
	if len(v.data) != len(u.data) {
		return false
	}
	for i, x := range v.data {
		if math.Abs(x-u.data[i]) > tol {
			return false
		}
	}
	return true
}
