// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/quadprog/dense"
)

// randomSPD returns an n×n matrix 𝐁ᵀ𝐁 + n·𝐈 with entries of 𝐁 drawn
// uniformly from (-1, 1). The diagonal shift keeps it comfortably
// positive definite for the oracle factorization.
func randomSPD(rnd *rand.Rand, n int) []float64 {
	b := make([]float64, n*n)
	for i := range b {
		b[i] = 2*rnd.Float64() - 1
	}
	g := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += b[k*n+i] * b[k*n+j]
			}
			if i == j {
				sum += float64(n)
			}
			g[i*n+j] = sum
		}
	}
	return g
}

// Unconstrained minimization reduces to 𝐆𝐱 = -𝐠₀, which gonum can
// answer independently through its own Cholesky factorization.
func TestAgainstCholeskyOracle(t *testing.T) {

	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 3, 5, 8} {

		g := randomSPD(rnd, n)
		g0 := make([]float64, n)
		for i := range g0 {
			g0[i] = 10 * (2*rnd.Float64() - 1)
		}

		gm, err := dense.MatrixOf(n, n, g)
		if err != nil {
			t.Fatal(err)
		}
		res, err := Solve(gm, dense.VectorOf(g0), nil, nil, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !res.OK {
			t.Fatalf("n=%d: no solution: %v", n, res.Status)
		}

		var chol mat.Cholesky
		if !chol.Factorize(mat.NewSymDense(n, g)) {
			t.Fatalf("n=%d: oracle factorization failed", n)
		}
		rhs := mat.NewVecDense(n, nil)
		rhs.ScaleVec(-1, mat.NewVecDense(n, g0))
		want := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(want, rhs); err != nil {
			t.Fatalf("n=%d: oracle solve failed: %v", n, err)
		}

		for i := 0; i < n; i++ {
			if !almostEqual(res.X[i], want.AtVec(i), 1e-9) {
				t.Fatalf("n=%d: x[%d] = %v, oracle %v", n, i, res.X[i], want.AtVec(i))
			}
		}
	}
}

// With only equalities active the optimum satisfies the linear KKT
// system, which an LU factorization of the bordered matrix can answer
// without any active-set machinery.
func TestAgainstKKTOracle(t *testing.T) {

	rnd := rand.New(rand.NewSource(7))
	for _, dims := range [][2]int{{2, 1}, {4, 2}, {6, 3}, {9, 4}} {
		n, p := dims[0], dims[1]

		g := randomSPD(rnd, n)
		g0 := make([]float64, n)
		for i := range g0 {
			g0[i] = 2*rnd.Float64() - 1
		}
		ce := make([]float64, n*p)
		for i := range ce {
			ce[i] = 2*rnd.Float64() - 1
		}
		ce0 := make([]float64, p)
		for i := range ce0 {
			ce0[i] = 2*rnd.Float64() - 1
		}

		gm, err := dense.MatrixOf(n, n, g)
		if err != nil {
			t.Fatal(err)
		}
		cem, err := dense.MatrixOf(n, p, ce)
		if err != nil {
			t.Fatal(err)
		}
		res, err := Solve(gm, dense.VectorOf(g0), cem, dense.VectorOf(ce0), nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !res.OK {
			t.Fatalf("n=%d p=%d: no solution: %v", n, p, res.Status)
		}

		// ⎡ G  CE⎤⎡x⎤   ⎡-g0 ⎤
		// ⎣CEᵀ  0⎦⎣λ⎦ = ⎣-ce0⎦
		kkt := mat.NewDense(n+p, n+p, nil)
		rhs := mat.NewVecDense(n+p, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				kkt.Set(i, j, g[i*n+j])
			}
			for j := 0; j < p; j++ {
				kkt.Set(i, n+j, ce[i*p+j])
				kkt.Set(n+j, i, ce[i*p+j])
			}
			rhs.SetVec(i, -g0[i])
		}
		for j := 0; j < p; j++ {
			rhs.SetVec(n+j, -ce0[j])
		}

		var lu mat.LU
		lu.Factorize(kkt)
		want := mat.NewVecDense(n+p, nil)
		if err := lu.SolveVecTo(want, false, rhs); err != nil {
			t.Fatalf("n=%d p=%d: oracle solve failed: %v", n, p, err)
		}

		for i := 0; i < n; i++ {
			if !almostEqual(res.X[i], want.AtVec(i), 1e-8) {
				t.Fatalf("n=%d p=%d: x[%d] = %v, oracle %v", n, p, i, res.X[i], want.AtVec(i))
			}
		}
	}
}
