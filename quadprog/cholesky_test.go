// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

import (
	"math"
	"reflect"
	"testing"
)

func TestDLLT(t *testing.T) {

	const n = 3

	// A classic SPD factorization example with an exact factor.
	g := []float64{
		4, 12, -16,
		12, 37, -43,
		-16, -43, 98,
	}
	wantL := []float64{
		2, 0, 0,
		6, 1, 0,
		-8, 5, 3,
	}

	a := make([]float64, n*n)
	copy(a, g)
	if info := dllt(a, n, n); info != 0 {
		t.Fatal("dllt info", info)
	}

	for i := 0; i < n; i++ {
		// The factor fills the lower triangle, the strict upper
		// triangle is unaltered.
		for j := 0; j <= i; j++ {
			if !almostEqual(a[i*n+j], wantL[i*n+j], 1e-14) {
				t.Fatalf("L[%d][%d] = %v, want %v", i, j, a[i*n+j], wantL[i*n+j])
			}
		}
		for j := i + 1; j < n; j++ {
			if a[i*n+j] != g[i*n+j] {
				t.Fatalf("upper triangle altered at [%d][%d]", i, j)
			}
		}
	}

	// Reconstruct L·Lᵀ and compare to the original.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k <= min(i, j); k++ {
				sum += a[i*n+k] * a[j*n+k]
			}
			if !almostEqual(sum, g[i*n+j], 1e-10) {
				t.Fatalf("(L·Lᵀ)[%d][%d] = %v, want %v", i, j, sum, g[i*n+j])
			}
		}
	}
}

func TestDLLTNotPositiveDefinite(t *testing.T) {

	cases := []struct {
		name string
		n    int
		a    []float64
		info int
	}{
		{"indefinite", 2, []float64{1, 2, 2, 1}, 2},
		{"semidefinite", 2, []float64{1, 1, 1, 1}, 2},
		{"negative", 1, []float64{-4}, 1},
	}

	for _, c := range cases {
		a := make([]float64, len(c.a))
		copy(a, c.a)
		if info := dllt(a, c.n, c.n); info != c.info {
			t.Fatalf("%s: dllt info = %d, want %d", c.name, info, c.info)
		}
	}
}

func TestDTRSL(t *testing.T) {

	const n = 3

	g := []float64{
		4, 12, -16,
		12, 37, -43,
		-16, -43, 98,
	}
	a := make([]float64, n*n)
	copy(a, g)
	if info := dllt(a, n, n); info != 0 {
		t.Fatal("dllt info", info)
	}

	// G·[1 2 3]ᵀ = [-20 -43 192]ᵀ, so the two-stage triangular solve of
	// L(Lᵀx) = b must recover [1 2 3].
	b := []float64{-20, -43, 192}
	if info := dtrsl(a, n, n, b, solveLowerN); info != 0 {
		t.Fatal("dtrsl forward info", info)
	}
	if info := dtrsl(a, n, n, b, solveLowerT); info != 0 {
		t.Fatal("dtrsl backward info", info)
	}
	if !almostEqual(b, []float64{1, 2, 3}, 1e-12) {
		t.Fatal("triangular solve solution unexpected", b)
	}

	// A zero diagonal leaves b unaltered and reports the offending index.
	sing := []float64{1, 0, 5, 0}
	rhs := []float64{3, 7}
	if info := dtrsl(sing, 2, 2, rhs, solveLowerN); info != 2 {
		t.Fatal("dtrsl singular info", info)
	}
	if !almostEqual(rhs, []float64{3, 7}, 0) {
		t.Fatal("dtrsl altered b on singular input", rhs)
	}
}

func TestDLLTI(t *testing.T) {

	const n = 3

	a := []float64{
		4, 12, -16,
		12, 37, -43,
		-16, -43, 98,
	}
	if info := dllt(a, n, n); info != 0 {
		t.Fatal("dllt info", info)
	}

	j := make([]float64, n*n)
	trace := dllti(a, n, n, j, n)

	// 𝚝𝚛(𝐋⁻ᵀ) = ∑ 1/𝐋ᵢᵢ = 1/2 + 1/1 + 1/3
	if !almostEqual(trace, 0.5+1+1.0/3, 1e-14) {
		t.Fatal("dllti trace unexpected", trace)
	}

	// 𝐉ᵀ𝐋 = 𝐈 since 𝐉 = 𝐋⁻ᵀ. Only the lower triangle of a holds the
	// factor, entries above the diagonal are zero in 𝐋.
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			sum := 0.0
			for k := c; k < n; k++ {
				sum += j[k*n+r] * a[k*n+c]
			}
			want := 0.0
			if r == c {
				want = 1.0
			}
			if !almostEqual(sum, want, 1e-12) {
				t.Fatalf("(𝐉ᵀ𝐋)[%d][%d] = %v", r, c, sum)
			}
		}
	}
}

func almostEqual[T float64 | []float64](a, b T, tol float64) bool {
	equalWithinAbs := func(a, b float64) bool {
		return a == b || math.Abs(a-b) <= tol
	}
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Float64:
		return equalWithinAbs(any(a).(float64), any(b).(float64))
	case reflect.Slice:
		a, b := any(a).([]float64), any(b).([]float64)
		if len(a) != len(b) {
			return false
		}
		for i, a := range a {
			if !equalWithinAbs(a, b[i]) {
				return false
			}
		}
		return true
	default:
		panic("unknown type")
	}
}
