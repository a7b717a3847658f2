// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dense

import "math"

// Matrix is a 2-D dense float64 array with fixed row and column count,
// stored row-major.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero-initialized r×c matrix.
func NewMatrix(r, c int) (*Matrix, error) {
	if r < 0 || c < 0 {
		return nil, ErrInvalidDimensions
	}
	return &Matrix{rows: r, cols: c, data: make([]float64, r*c)}, nil
}

// MatrixOf returns an r×c matrix holding a copy of data in row-major order.
// The length of data must be exactly r×c.
func MatrixOf(r, c int, data []float64) (*Matrix, error) {
	if r < 0 || c < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != r*c {
		return nil, ErrDimensionMismatch
	}
	m := &Matrix{rows: r, cols: c, data: make([]float64, r*c)}
	copy(m.data, data)
	return m, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
// Row and column indices are validated independently and either being
// out of range panics with ErrIndexOutOfRange.
func (m *Matrix) At(i, j int) float64 {
	if uint(i) >= uint(m.rows) || uint(j) >= uint(m.cols) {
		panic(ErrIndexOutOfRange)
	}
	return m.data[i*m.cols+j]
}

// Set stores x at row i, column j.
// It panics with ErrIndexOutOfRange when either index is out of range.
func (m *Matrix) Set(i, j int, x float64) {
	if uint(i) >= uint(m.rows) || uint(j) >= uint(m.cols) {
		panic(ErrIndexOutOfRange)
	}
	m.data[i*m.cols+j] = x
}

// Clone returns an independent copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Raw returns a copy of the backing elements in row-major order.
func (m *Matrix) Raw() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)
	return out
}

// Row returns row i as a new vector.
// It panics with ErrIndexOutOfRange unless 0 ≤ i < Rows().
func (m *Matrix) Row(i int) *Vector {
	if uint(i) >= uint(m.rows) {
		panic(ErrIndexOutOfRange)
	}
	return VectorOf(m.data[i*m.cols : (i+1)*m.cols])
}

// Col returns column j as a new vector.
// It panics with ErrIndexOutOfRange unless 0 ≤ j < Cols().
func (m *Matrix) Col(j int) *Vector {
	if uint(j) >= uint(m.cols) {
		panic(ErrIndexOutOfRange)
	}
	v := &Vector{data: make([]float64, m.rows)}
	for i := 0; i < m.rows; i++ {
		v.data[i] = m.data[i*m.cols+j]
	}
	return v
}

// T returns the transpose of m as a new matrix.
func (m *Matrix) T() *Matrix {
	t := &Matrix{rows: m.cols, cols: m.rows, data: make([]float64, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j*t.cols+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Add returns m + b element-wise.
func (m *Matrix) Add(b *Matrix) (*Matrix, error) {
	if m.rows != b.rows || m.cols != b.cols {
		return nil, ErrDimensionMismatch
	}
	r := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, x := range m.data {
		r.data[i] = x + b.data[i]
	}
	return r, nil
}

// Sub returns m - b element-wise.
func (m *Matrix) Sub(b *Matrix) (*Matrix, error) {
	if m.rows != b.rows || m.cols != b.cols {
		return nil, ErrDimensionMismatch
	}
	r := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, x := range m.data {
		r.data[i] = x - b.data[i]
	}
	return r, nil
}

// Scale returns a·m.
func (m *Matrix) Scale(a float64) *Matrix {
	r := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, x := range m.data {
		r.data[i] = a * x
	}
	return r
}

// MulVec returns the product m·v as a new vector of length Rows().
func (m *Matrix) MulVec(v *Vector) (*Vector, error) {
	if m.cols != len(v.data) {
		return nil, ErrDimensionMismatch
	}
	r := &Vector{data: make([]float64, m.rows)}
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		var sum float64
		for j, x := range row {
			sum += x * v.data[j]
		}
		r.data[i] = sum
	}
	return r, nil
}

// Mul returns the product m·b as a new Rows()×b.Cols() matrix.
func (m *Matrix) Mul(b *Matrix) (*Matrix, error) {
	if m.cols != b.rows {
		return nil, ErrDimensionMismatch
	}
	r := &Matrix{rows: m.rows, cols: b.cols, data: make([]float64, m.rows*b.cols)}
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			bk := b.data[k*b.cols : (k+1)*b.cols]
			rk := r.data[i*r.cols : (i+1)*r.cols]
			for j, x := range bk {
				rk[j] += a * x
			}
		}
	}
	return r, nil
}

// Equal reports whether m and b have the same shape and identical elements.
func (m *Matrix) Equal(b *Matrix) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i, x := range m.data {
		if x != b.data[i] {
			return false
		}
	}
	return true
}

// EqualApprox reports whether m and b have the same shape and every
// element pair differs by at most tol.
func (m *Matrix) EqualApprox(b *Matrix, tol float64) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i, x := range m.data {
		if math.Abs(x-b.data[i]) > tol {
			return false
		}
	}
	return true
}
