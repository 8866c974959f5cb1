// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/panoc/lbfgs"
	"github.com/cpmech/panoc/vec"
)

// DefaultLipschitzProbeEpsilon is the ε_L used to build the finite-difference
// probe point in Init, √machine-epsilon for float64.
const DefaultLipschitzProbeEpsilon = 1.4901161193847656e-08 // sqrt(2^-52)

// Cache holds every piece of scratch state one solve needs: the forward-
// backward intermediates, the scalars the engine tunes, and the L-BFGS
// estimator. It is allocated once for a given (dimension, memory) pair and
// reused across an arbitrary number of solves; Reset returns it to its
// post-construction state between solves. An Engine borrows a Cache
// exclusively for the lifetime of one solve.
type Cache struct {
	n, m int

	UHalfStep          la.Vector // u - γ∇f(u), before projection
	GradientU          la.Vector // ∇f(u)
	GradientStep       la.Vector // T_γ(u) = proj_C(u - γ∇f(u))
	FixedPointResidual la.Vector // r(u) = u - T_γ(u)
	DirectionLBFGS     la.Vector // quasi-Newton direction estimate
	UPlus              la.Vector // scratch for the candidate next iterate

	CostValue              float64
	LipschitzConstant      float64
	Gamma                  float64
	Sigma                  float64
	Tau                    float64
	NormFPR                float64
	Tolerance              float64
	LipschitzUpdateEpsilon float64

	LBFGS *lbfgs.Estimator
}

// NewCache allocates all length-n scratch for a problem of dimension n and
// an L-BFGS memory of m pairs. n and m must be >= 1, ε must be > 0
// (BadParameter otherwise).
func NewCache(n int, epsilon float64, m int) (*Cache, error) {
	if n < 1 {
		return nil, vec.ErrBadParameter("panoc: n must be >= 1, got %d", n)
	}
	if m < 1 {
		return nil, vec.ErrBadParameter("panoc: m must be >= 1, got %d", m)
	}
	if epsilon <= 0 {
		return nil, vec.ErrBadParameter("panoc: epsilon must be > 0, got %v", epsilon)
	}
	estimator, err := lbfgs.New(n, m, lbfgs.DefaultCurvatureCutoff)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		n: n, m: m,
		UHalfStep:              make(la.Vector, n),
		GradientU:              make(la.Vector, n),
		GradientStep:           make(la.Vector, n),
		FixedPointResidual:     make(la.Vector, n),
		DirectionLBFGS:         make(la.Vector, n),
		UPlus:                  make(la.Vector, n),
		Tolerance:              epsilon,
		LipschitzUpdateEpsilon: DefaultLipschitzProbeEpsilon,
		LBFGS:                  estimator,
	}
	return c, nil
}

// Dimension returns the n this cache was allocated for.
func (c *Cache) Dimension() int { return c.n }

// Memory returns the L-BFGS memory m this cache was allocated for.
func (c *Cache) Memory() int { return c.m }

// Reset clears the L-BFGS buffer and the scalars γ, L, σ, τ, norm_fpr to
// their post-construction state. Tolerance and LipschitzUpdateEpsilon are
// caller-tunables and are left untouched. Called automatically by
// Engine.Init; exposed so a cache can be reused across solves without going
// through a fresh Engine if the caller prefers.
func (c *Cache) Reset() {
	c.LBFGS.Reset()
	c.LipschitzConstant = 0
	c.Gamma = 0
	c.Sigma = 0
	c.Tau = 0
	c.NormFPR = 0
	c.CostValue = 0
}
