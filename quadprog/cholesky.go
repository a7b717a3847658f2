// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

import (
	"math"
)

const (
	solveLowerN = 0b0
	solveLowerT = 0b1
)

// dllt factors a symmetric positive definite matrix A = L * Lᵀ in place.
//
//	on entry
//
//	   a       double precision(n, lda)
//	           the symmetric matrix to be factored. only the
//	           diagonal and upper triangle are used.
//
//	   lda     integer
//	           the leading dimension of the array a.
//
//	   n       integer
//	           the order of the matrix a.
//
//	on return
//
//	   a       a lower triangular matrix L so that A = L * Lᵀ.
//	           the strict upper triangle is unaltered.
//	           if info .ne. 0, the factorization is not complete.
//
//	   info    integer
//	           = 0  for normal return.
//	           = k  signals an error condition. the leading minor
//	                of order k is not positive definite: its pivot
//	                went non-positive before the square root.
func dllt(a []float64, lda, n int) (info int) {
	if n > 0 && (lda < n || (n-1)*lda+n > len(a)) {
		panic("bound check error")
	}
	for i := 0; i < n; i++ {
		ai := a[i*lda : i*lda+n : i*lda+n]
		for j := i; j < n; j++ {
			aj := a[j*lda : j*lda+n : j*lda+n]
			// Subtract the already factored columns from the upper triangle entry.
			sum := ai[j] - ddot(i, ai, 1, aj, 1)
			if i == j {
				if sum <= zero {
					return i + 1
				}
				ai[i] = math.Sqrt(sum)
			} else {
				aj[i] = sum / ai[i]
			}
		}
	}
	return 0
}

// dtrsl solves systems of the form
//
//	L * x = b or Lᵀ * x = b
//
// where L is the lower triangular matrix of order n produced by dllt.
//
//	job      solveLowerN   solve L * x = b by forward substitution,
//	         solveLowerT   solve Lᵀ * x = b by back substitution.
//
// On return b contains the solution if info == 0, otherwise info is the
// index of the first zero diagonal element of L and b is unaltered.
func dtrsl(l []float64, ldl, n int, b []float64, job int) (info int) {
	if n > 0 && (ldl < n || (n-1)*ldl+n > len(l) || n > len(b)) {
		panic("bound check error")
	}
	for i := 0; i < n; i++ {
		if l[i*ldl+i] == zero {
			return i + 1
		}
	}
	switch job {
	case solveLowerN:
		for i := 0; i < n; i++ {
			b[i] = (b[i] - ddot(i, l[i*ldl:], 1, b, 1)) / l[i*ldl+i]
		}
	case solveLowerT:
		for i := n - 1; i >= 0; i-- {
			sum := zero
			// The last row has no sub-diagonal column to accumulate.
			if i < n-1 {
				sum = ddot(n-1-i, l[(i+1)*ldl+i:], ldl, b[i+1:], 1)
			}
			b[i] = (b[i] - sum) / l[i*ldl+i]
		}
	default:
		info = -1
	}
	return
}

// dllti builds 𝐉 = 𝐋⁻ᵀ from the factor produced by dllt, so that 𝐉𝐉ᵀ = 𝐆⁻¹.
//
// Row i of 𝐉 is the solution of 𝐋𝐳 = 𝐞ᵢ, making 𝐉 upper triangular with
// diagonal 1/𝐋ᵢᵢ. The returned trace feeds the scale-aware optimality test.
func dllti(l []float64, ldl, n int, j []float64, ldj int) (trace float64) {
	if n > 0 && (ldj < n || (n-1)*ldj+n > len(j)) {
		panic("bound check error")
	}
	for i := 0; i < n; i++ {
		ji := j[i*ldj : i*ldj+n]
		dzero(ji)
		ji[i] = one
		dtrsl(l, ldl, n, ji, solveLowerN)
		trace += ji[i]
	}
	return
}
