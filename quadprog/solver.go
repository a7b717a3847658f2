// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadprog

import (
	"math"
)

// qpSolver minimizes ½𝐱ᵀ𝐆𝐱 + 𝐠₀ᵀ𝐱 subject to
//   - equality constraints: 𝐂ₑᵀ𝐱 + 𝐜ₑ₀ = 0
//   - inequality constraints: 𝐂ᵢᵀ𝐱 + 𝐜ᵢ₀ ≥ 0
//
// with the dual method of Goldfarb and Idnani. The iteration starts from the
// unconstrained minimizer (dual feasible by construction) and adds violated
// constraints one at a time, dropping an active constraint whenever its
// Lagrange multiplier would cross zero, until no violation remains.
//
// # Factorization
//
// Let 𝐆 = 𝐋𝐋ᵀ be the Cholesky factorization of the objective matrix and
// 𝐍 the n × q matrix of active constraint normals. The engine maintains
//
//	𝐉 = 𝐋⁻ᵀ𝐐    with    𝐉ᵀ𝐍 = ⎡ 𝐑 ⎤ ]╴ q
//	                           ⎣ O ⎦ ]╴ n-q
//
// where 𝐐 is orthogonal and 𝐑 is q × q upper triangular. For an entering
// normal 𝐧⁺ the quantities
//   - 𝐝 = 𝐉ᵀ𝐧⁺
//   - 𝐳 = 𝐉₂𝐝₂ (the last n-q columns of 𝐉)
//   - 𝐫 = 𝐑⁻¹𝐝₁ (the first q components of 𝐝)
//
// give the primal step direction 𝐳 (the projection of 𝐆⁻¹𝐧⁺ onto the null
// space of 𝐍ᵀ) and the dual step direction 𝐫, each in O(n²).
//
// # Update and downdate
//
// When a constraint enters the active set, Givens rotations zero the trailing
// components of 𝐝 so 𝐑 gains an upper triangular column; when one leaves, the
// hole in 𝐑 is re-triangularized the same way. Every rotation is mirrored
// into the columns of 𝐉, so the factorization is never rebuilt from scratch.
//
// # Step length
//
// Each iteration takes step t = 𝗆𝗂𝗇(t1, t2) where t1 is the largest dual step
// that keeps all active multipliers non-negative (the minimum ratio 𝐮ₖ/𝐫ₖ over
// 𝐫ₖ > 0, lowest index on ties) and t2 = -𝐬/𝐳ᵀ𝐧⁺ is the full primal step onto
// the violated constraint plane. An unbounded t signals an infeasible problem.
//
// # References
//
//	D. Goldfarb, A. Idnani, 'A numerically stable dual method for solving
//	strictly convex quadratic programs', Mathematical Programming 27 (1983).
type qpSolver struct {
	spec *qpSpec
	ctx  *qpCtx
}

// g1 computes a Givens rotation (c, s, σ) with c ≥ 0 mapping (a, b) to (σ, 0).
// A zero input pair yields c = s = σ = 0 and the caller skips the rotation.
func g1(a, b float64) (c, s, sig float64) {
	h := math.Hypot(a, b)
	if h == zero {
		return
	}
	c, s, sig = a/h, b/h, h
	if c < zero {
		c, s, sig = -c, -s, -sig
	}
	return
}

// stepDirection computes 𝐝 = 𝐉ᵀ𝐧⁺, the primal direction 𝐳 = 𝐉₂𝐝₂ and the
// dual direction 𝐫 = 𝐑⁻¹𝐝₁ for the current active set size iq.
func (qs *qpSolver) stepDirection(iq int) {
	n, c := qs.spec.n, qs.ctx
	for i := 0; i < n; i++ {
		c.d[i] = ddot(n, c.jm[i:], n, c.np, 1)
	}
	for i := 0; i < n; i++ {
		c.z[i] = ddot(n-iq, c.jm[i*n+iq:], 1, c.d[iq:], 1)
	}
	for i := iq - 1; i >= 0; i-- {
		sum := ddot(iq-1-i, c.rt[i*n+i+1:], 1, c.rv[i+1:], 1)
		c.rv[i] = (c.d[i] - sum) / c.rt[i*n+i]
	}
}

// addConstraint brings the normal whose image is held in 𝐝 into the active
// set. It reports false when the normal is linearly dependent on the active
// set, leaving the factorization rank deficient.
func (qs *qpSolver) addConstraint(iq *int, rnorm *float64) bool {
	n, c := qs.spec.n, qs.ctx
	// A full active set already spans ℝⁿ, so any further normal is
	// linearly dependent on it.
	if *iq >= n {
		return false
	}
	// Zero 𝐝 components iq+1 ... n-1 with Givens rotations, mirroring each
	// rotation into the columns of 𝐉 so 𝐉ᵀ𝐍 keeps its triangular shape.
	for j := n - 1; j >= *iq+1; j-- {
		cc, ss, h := g1(c.d[j-1], c.d[j])
		if h == zero {
			continue
		}
		c.d[j] = zero
		c.d[j-1] = h
		nu := ss / (one + cc)
		for k := 0; k < n; k++ {
			jk := c.jm[k*n : k*n+n : k*n+n]
			t1, t2 := jk[j-1], jk[j]
			jk[j-1] = t1*cc + t2*ss
			jk[j] = nu*(t1+jk[j-1]) - t2
		}
	}
	*iq++
	for i := 0; i < *iq; i++ {
		c.rt[i*n+*iq-1] = c.d[i]
	}
	if math.Abs(c.d[*iq-1]) <= eps**rnorm {
		return false
	}
	*rnorm = math.Max(*rnorm, math.Abs(c.d[*iq-1]))
	return true
}

// dropConstraint removes inequality constraint l from the active set and
// restores the triangular shape of 𝐑 with Givens rotations, mirroring them
// into 𝐉. The pending candidate held one slot past the active set survives
// the removal.
func (qs *qpSolver) dropConstraint(iq *int, l int) {
	n, p, c := qs.spec.n, qs.spec.p, qs.ctx

	qq := -1
	for i := p; i < *iq; i++ {
		if c.a[i] == l {
			qq = i
			break
		}
	}
	if qq < 0 {
		return
	}

	// Slide the trailing constraints and the candidate one slot left.
	for i := qq; i < *iq-1; i++ {
		c.a[i] = c.a[i+1]
		c.u[i] = c.u[i+1]
		for j := 0; j < n; j++ {
			c.rt[j*n+i] = c.rt[j*n+i+1]
		}
	}
	c.a[*iq-1] = c.a[*iq]
	c.u[*iq-1] = c.u[*iq]
	c.a[*iq] = 0
	c.u[*iq] = zero
	for j := 0; j < *iq; j++ {
		c.rt[j*n+*iq-1] = zero
	}
	*iq--
	if *iq == 0 {
		return
	}

	// Re-triangularize 𝐑 below the removed column.
	for j := qq; j < *iq; j++ {
		cc, ss, h := g1(c.rt[j*n+j], c.rt[(j+1)*n+j])
		if h == zero {
			continue
		}
		c.rt[(j+1)*n+j] = zero
		c.rt[j*n+j] = h
		nu := ss / (one + cc)
		for k := j + 1; k < *iq; k++ {
			t1, t2 := c.rt[j*n+k], c.rt[(j+1)*n+k]
			c.rt[j*n+k] = t1*cc + t2*ss
			c.rt[(j+1)*n+k] = nu*(t1+c.rt[j*n+k]) - t2
		}
		for k := 0; k < n; k++ {
			jk := c.jm[k*n : k*n+n : k*n+n]
			t1, t2 := jk[j], jk[j+1]
			jk[j] = t1*cc + t2*ss
			jk[j+1] = nu*(jk[j]+t1) - t2
		}
	}
}

// mainLoop runs the dual iteration to a terminal state and returns the
// achieved objective value. The value is NaN unless the status is Optimal.
func (qs *qpSolver) mainLoop() (st Status, f float64) {
	s, c := qs.spec, qs.ctx
	n, p, m := s.n, s.p, s.m
	inf := math.Inf(1)

	// Factor 𝐆 = 𝐋𝐋ᵀ on a working copy, keeping 𝚝𝚛(𝐆) for the scaled
	// optimality test.
	copy(c.cl, s.g)
	c1 := zero
	for i := 0; i < n; i++ {
		c1 += s.g[i*n+i]
	}
	if dllt(c.cl, n, n) != 0 {
		return NotPositiveDefinite, math.NaN()
	}

	// Unconstrained minimizer 𝐱 = -𝐆⁻¹𝐠₀, dual feasible by construction.
	copy(c.x, s.g0)
	dtrsl(c.cl, n, n, c.x, solveLowerN)
	dtrsl(c.cl, n, n, c.x, solveLowerT)
	for i := range c.x[:n] {
		c.x[i] = -c.x[i]
	}
	f = half * ddot(n, s.g0, 1, c.x, 1)

	c2 := dllti(c.cl, n, n, c.jm, n)
	dzero(c.rt)
	rnorm := one
	iq := 0

	// Add the equality constraints one by one, each with a full step.
	for i := 0; i < p; i++ {
		dcopy(n, s.ce[i:], p, c.np, 1)
		qs.stepDirection(iq)
		t2 := zero
		if math.Abs(ddot(n, c.z, 1, c.z, 1)) > eps {
			t2 = (-ddot(n, c.np, 1, c.x, 1) - s.ce0[i]) / ddot(n, c.z, 1, c.np, 1)
		}
		daxpy(n, t2, c.z, 1, c.x, 1)
		daxpy(iq, -t2, c.rv, 1, c.u, 1)
		c.u[iq] = t2
		f += half * t2 * t2 * ddot(n, c.z, 1, c.np, 1)
		c.a[i] = -i - 1
		if !qs.addConstraint(&iq, &rnorm) {
			// the equality constraints are linearly dependent
			return Infeasible, math.NaN()
		}
	}

	for i := 0; i < m; i++ {
		c.iai[i] = i
	}

step1:
	for {
		// Mark the active inequalities and evaluate every slack.
		for i := p; i < iq; i++ {
			if c.a[i] >= 0 {
				c.iai[c.a[i]] = -1
			}
		}
		psi := zero
		for i := 0; i < m; i++ {
			c.excl[i] = true
			c.s[i] = ddot(n, s.ci[i:], m, c.x, 1) + s.ci0[i]
			psi += math.Min(zero, c.s[i])
		}
		if math.Abs(psi) <= float64(m)*s.acc*c1*c2 {
			c.nact = iq
			return Optimal, f
		}
		// Snapshot in case a rank failure forces a rollback.
		copy(c.u0[:iq], c.u[:iq])
		copy(c.a0[:iq], c.a[:iq])
		copy(c.x0, c.x[:n])

	step2:
		for {
			// The most violated inactive constraint enters next,
			// lowest index on ties.
			ss, ip := zero, -1
			for i := 0; i < m; i++ {
				if c.s[i] < ss && c.iai[i] != -1 && c.excl[i] {
					ss, ip = c.s[i], i
				}
			}
			if ip < 0 {
				c.nact = iq
				return Optimal, f
			}
			c.u[iq] = zero
			c.a[iq] = ip
			dcopy(n, s.ci[ip:], m, c.np, 1)

			for {
				if c.iter++; c.iter > s.maxIter {
					return Degenerate, math.NaN()
				}
				qs.stepDirection(iq)

				// Dual step t1: the first active multiplier to cross zero,
				// lowest index on ties.
				l, t1 := -1, inf
				for k := p; k < iq; k++ {
					if c.rv[k] > zero && c.u[k]/c.rv[k] < t1 {
						t1 = c.u[k] / c.rv[k]
						l = c.a[k]
					}
				}
				// Primal step t2: the full step onto the constraint plane.
				t2 := inf
				if math.Abs(ddot(n, c.z, 1, c.z, 1)) > eps {
					t2 = -c.s[ip] / ddot(n, c.z, 1, c.np, 1)
				}
				t := math.Min(t1, t2)

				if t >= inf {
					// no finite step exists in either space
					return Infeasible, math.NaN()
				}

				if t2 >= inf {
					// step in the dual space only: the blocking constraint
					// leaves and the direction is recomputed
					daxpy(iq, -t, c.rv, 1, c.u, 1)
					c.u[iq] += t
					c.iai[l] = l
					qs.dropConstraint(&iq, l)
					continue
				}

				daxpy(n, t, c.z, 1, c.x, 1)
				f += t * ddot(n, c.z, 1, c.np, 1) * (half*t + c.u[iq])
				daxpy(iq, -t, c.rv, 1, c.u, 1)
				c.u[iq] += t

				if t == t2 {
					// full step: constraint ip becomes active
					if qs.addConstraint(&iq, &rnorm) {
						c.iai[ip] = -1
						continue step1
					}
					// rank failure: exclude ip and roll back to the snapshot
					c.excl[ip] = false
					qs.dropConstraint(&iq, ip)
					for i := 0; i < m; i++ {
						c.iai[i] = i
					}
					for i := 0; i < iq; i++ {
						c.a[i] = c.a0[i]
						c.u[i] = c.u0[i]
						if c.a[i] >= 0 {
							c.iai[c.a[i]] = -1
						}
					}
					copy(c.x[:n], c.x0)
					continue step2
				}

				// partial step: the blocking constraint leaves, the slack of
				// the candidate is refreshed at the new location
				c.iai[l] = l
				qs.dropConstraint(&iq, l)
				c.s[ip] = ddot(n, s.ci[ip:], m, c.x, 1) + s.ci0[ip]
			}
		}
	}
}
