// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

const (
	zero = 0.0
	one  = 1.0
	half = 0.5
	eps  = float64(7)/3 - float64(4)/3 - 1.
)

// Status describes how a solve terminated.
type Status int

const (
	// Optimal the KKT conditions hold and the solution is returned.
	Optimal Status = iota
	// Infeasible no point satisfies the constraints.
	Infeasible
	// Degenerate the iteration cap was reached without convergence.
	Degenerate
	// NotPositiveDefinite the objective matrix failed the Cholesky factorization.
	NotPositiveDefinite
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	case Degenerate:
		return "Degenerate"
	case NotPositiveDefinite:
		return "NotPositiveDefinite"
	}
	return "Unknown"
}

type qpSpec struct {
	// the number of variables
	n int
	// the number of equality constraints
	p int
	// the number of inequality constraints
	m int
	// optimality scale factor (Termination.Accuracy)
	acc float64
	// cap on constraint add/drop steps (Termination.MaxIterations)
	maxIter int
	// problem data, read-only after New:
	//  - g  : n × n quadratic term (only the diagonal and upper triangle are referenced)
	//  - g0 : n-vector linear term
	//  - ce : n × p equality normals (constraints are columns)
	//  - ci : n × m inequality normals (constraints are columns)
	g, g0, ce, ce0, ci, ci0 []float64
}

type qpCtx struct {
	// the Cholesky factor 𝐋 of 𝐆 (lower triangle, factored in place from a copy of g).
	cl []float64 // n × n
	// the matrix 𝐉 = 𝐋⁻ᵀ, rotated as constraints enter and leave the active set.
	jm []float64 // n × n
	// the upper triangular factor 𝐑 spanned by the active constraint normals.
	rt []float64 // n × n
	// the current location and its saved copy.
	x, x0 []float64 // n
	// step direction scratch: 𝐝 = 𝐉ᵀ𝐧⁺, 𝐳 = 𝐉₂𝐝₂, 𝐧⁺ the entering normal.
	d, z, np []float64 // n
	// inequality slacks 𝐬 = 𝐂ᵢᵀ𝐱 + 𝐜ᵢ₀.
	s []float64 // m
	// dual step direction 𝐫 = 𝐑⁻¹𝐝₁.
	rv []float64 // p + m
	// the Lagrange multipliers of the active set and their saved copy.
	u, u0 []float64 // p + m + 1, p + m
	// the active set (equality i stored as -i-1) and its saved copy.
	a, a0 []int // p + m + 1, p + m
	// iai[i] == -1 marks inequality i as active.
	iai []int // m
	// excl[i] marks inequality i as temporarily excluded after a rank failure.
	excl []bool // m
	// add/drop step counter.
	iter int
	// size of the active set at termination.
	nact int
}
