// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/curioloop/quadprog/dense"
)

// Termination specifies the stopping criteria for the dual iteration.
type Termination struct {
	// Accuracy scales the optimality threshold m·Accuracy·𝚝𝚛(𝐆)·𝚝𝚛(𝐋⁻ᵀ)
	// under which the summed inequality violation is treated as zero.
	// Zero selects the default of 100× machine epsilon.
	Accuracy float64
	// MaxIterations caps the number of constraint add/drop steps, after
	// which the solve reports Degenerate. Zero selects the default of
	// 10×(n + p + m).
	MaxIterations int
}

// Problem specifies a strictly convex quadratic program
//
//	minimize ½𝐱ᵀ𝐆𝐱 + 𝐠₀ᵀ𝐱
//	subject to 𝐂ₑᵀ𝐱 + 𝐜ₑ₀ = 0 and 𝐂ᵢᵀ𝐱 + 𝐜ᵢ₀ ≥ 0
//
// where constraints are the columns of CE and CI. Only the diagonal and
// upper triangle of G are referenced and G must be positive definite.
// CE/CI may be nil for an unconstrained block.
type Problem struct {
	G   *dense.Matrix // n × n quadratic term
	G0  *dense.Vector // n-vector linear term
	CE  *dense.Matrix // n × p equality coefficients
	CE0 *dense.Vector // p-vector equality constants
	CI  *dense.Matrix // n × m inequality coefficients
	CI0 *dense.Vector // m-vector inequality constants
	// Stop condition
	Stop Termination
}

// New validates the problem dimensions and creates a solver for it.
// Every violation is reported before any iteration begins and wraps
// dense.ErrDimensionMismatch.
func (qp *Problem) New() (solver *Solver, err error) {

	if qp.G == nil || qp.G0 == nil {
		return nil, errors.New("quadprog: objective matrix and vector are required")
	}

	n := qp.G.Rows()
	p, m := 0, 0
	if qp.CE != nil {
		p = qp.CE.Cols()
	}
	if qp.CI != nil {
		m = qp.CI.Cols()
	}
	ce0Len, ci0Len := 0, 0
	if qp.CE0 != nil {
		ce0Len = qp.CE0.Len()
	}
	if qp.CI0 != nil {
		ci0Len = qp.CI0.Len()
	}

	switch {
	case n <= 0:
		err = errors.New("quadprog: problem dimension must be greater than 0")
	case qp.G.Cols() != n:
		err = fmt.Errorf("quadprog: G is %d×%d, want square: %w", n, qp.G.Cols(), dense.ErrDimensionMismatch)
	case qp.G0.Len() != n:
		err = fmt.Errorf("quadprog: g0 length %d, want %d: %w", qp.G0.Len(), n, dense.ErrDimensionMismatch)
	case qp.CE != nil && qp.CE.Rows() != n:
		err = fmt.Errorf("quadprog: CE has %d rows, want %d: %w", qp.CE.Rows(), n, dense.ErrDimensionMismatch)
	case ce0Len != p:
		err = fmt.Errorf("quadprog: ce0 length %d, want %d: %w", ce0Len, p, dense.ErrDimensionMismatch)
	case qp.CI != nil && qp.CI.Rows() != n:
		err = fmt.Errorf("quadprog: CI has %d rows, want %d: %w", qp.CI.Rows(), n, dense.ErrDimensionMismatch)
	case ci0Len != m:
		err = fmt.Errorf("quadprog: ci0 length %d, want %d: %w", ci0Len, m, dense.ErrDimensionMismatch)
	case qp.Stop.Accuracy < 0:
		err = errors.New("quadprog: accuracy must not be less than 0")
	case qp.Stop.MaxIterations < 0:
		err = errors.New("quadprog: max iterations must not be less than 0")
	}
	if err != nil {
		return
	}

	acc := qp.Stop.Accuracy
	if acc == 0 {
		acc = 100 * eps
	}
	maxIter := qp.Stop.MaxIterations
	if maxIter == 0 {
		maxIter = 10 * (n + p + m)
	}

	spec := qpSpec{
		n: n, p: p, m: m,
		acc:     acc,
		maxIter: maxIter,
		g:       qp.G.Raw(),
		g0:      qp.G0.Raw(),
	}
	if qp.CE != nil {
		spec.ce, spec.ce0 = qp.CE.Raw(), qp.CE0.Raw()
	}
	if qp.CI != nil {
		spec.ci, spec.ci0 = qp.CI.Raw(), qp.CI0.Raw()
	}

	return &Solver{spec}, nil
}

// Solver implements the Goldfarb-Idnani dual method for a fixed problem.
type Solver struct {
	qpSpec
}

// Workspace contains the state of one solve. Given n variables and
// q = p + m constraints, the backing space is float64[3n² + 5n + m + 3q + 1],
// the extra slot holding the multiplier of the entering candidate.
type Workspace struct {
	n, p, m int
	qpCtx
}

// Result contains the terminal state of one solve.
// It is created once per solve and never mutated afterwards.
type Result struct {
	OK    bool      // Whether an optimal solution was found.
	X     []float64 // Solution vector, nil unless OK.
	Value float64   // Achieved objective ½𝐱ᵀ𝐆𝐱 + 𝐠₀ᵀ𝐱, NaN unless OK.
	// Lagrange multipliers of the final active set, nil unless OK:
	// entry j < p belongs to equality j, entry p+i to inequality i.
	// Constraints outside the active set hold zero.
	Lagrange []float64
	Summary
}

// Summary contains a summary of the solve.
type Summary struct {
	Status  Status // Terminal status.
	NumIter int    // Number of constraint add/drop steps performed.
}

// Init allocates the workspace for one solve.
// To avoid race conditions, separate workspaces need to be created for
// each goroutine. But multiple workspaces could share one solver.
func (o *Solver) Init() *Workspace {
	w := new(Workspace)
	w.n, w.p, w.m = o.n, o.p, o.m

	n, m, q := o.n, o.m, o.p+o.m
	wrk := make([]float64, 3*n*n+5*n+m+3*q+1)
	iw := 0
	next := func(k int) []float64 {
		s := wrk[iw : iw+k : iw+k]
		iw += k
		return s
	}

	w.cl, w.jm, w.rt = next(n*n), next(n*n), next(n*n)
	w.x, w.x0 = next(n), next(n)
	w.d, w.z, w.np = next(n), next(n), next(n)
	w.s, w.rv = next(m), next(q)
	w.u, w.u0 = next(q+1), next(q)

	ints := make([]int, 2*q+1+m)
	w.a, w.a0, w.iai = ints[:q+1:q+1], ints[q+1:2*q+1:2*q+1], ints[2*q+1:]
	w.excl = make([]bool, m)

	return w
}

// Solve runs the dual iteration to completion on the calling goroutine
// using workspace w.
func (o *Solver) Solve(w *Workspace) *Result {

	if w.n != o.n || w.p != o.p || w.m != o.m {
		panic("workspace dimension not match spec")
	}
	w.iter, w.nact = 0, 0

	qs := qpSolver{spec: &o.qpSpec, ctx: &w.qpCtx}
	st, f := qs.mainLoop()

	res := &Result{
		OK: st == Optimal, Value: f,
		Summary: Summary{
			Status:  st,
			NumIter: w.iter,
		},
	}
	if res.OK {
		res.X = slices.Clone(w.x)
		res.Lagrange = make([]float64, o.p+o.m)
		for k := 0; k < w.nact; k++ {
			if j := w.a[k]; j < 0 {
				res.Lagrange[-j-1] = w.u[k]
			} else {
				res.Lagrange[o.p+j] = w.u[k]
			}
		}
	}
	return res
}

// Solve builds a problem from the given terms, validates it and runs a
// single solve with a fresh workspace.
func Solve(g *dense.Matrix, g0 *dense.Vector, ce *dense.Matrix, ce0 *dense.Vector,
	ci *dense.Matrix, ci0 *dense.Vector) (*Result, error) {
	qp := Problem{G: g, G0: g0, CE: ce, CE0: ce0, CI: ci, CI0: ci0}
	s, err := qp.New()
	if err != nil {
		return nil, err
	}
	return s.Solve(s.Init()), nil
}
