// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/panoc/lbfgs"
	"github.com/cpmech/panoc/vec"
)

// state is the per-cache state machine: Fresh -> Initialized -> Iterating*
// -> Converged. Exhausted is reserved for a caller-imposed iteration budget;
// the engine itself does not own one (spec.md §4.5.3).
type state int

const (
	stateFresh state = iota
	stateInitialized
	stateIterating
	stateConverged
)

// Engine runs one PANOC solve: it borrows a Problem and a Cache exclusively
// for its lifetime (spec.md §5) and must not retain either past the solve.
//
// Its run loop (Init once, then repeated Step) generalizes gofem/fem.FEM's
// time-stepping Run loop (fem/fem.go, fem/solver.go) from integrating a
// transient simulation forward in time to iterating a forward-backward
// splitting to a stationary point.
type Engine struct {
	problem *Problem
	cache   *Cache
	n       int
	state   state
	iter    int

	// Safety is the line-search/step-size safety margin (spec.md's "safety"),
	// used both to shrink γ below 1/L and to set σ = γ(1-Safety)/2.
	Safety float64
	// TauMin is the line-search backtracking floor; below it the engine
	// accepts τ = 0 (pure proximal-gradient step) rather than failing.
	TauMin float64
	// LipschitzFloor clamps the finite-difference Lipschitz estimate away
	// from zero.
	LipschitzFloor float64
	// AdaptiveGamma enables the optional γ-halving extension of spec.md
	// §4.5.2: when the forward-backward sufficient-decrease inequality is
	// violated at τ=0, γ is halved, σ/L rescaled, the L-BFGS buffer reset,
	// and ∇f is recomputed at the (unchanged) current u. Off by default —
	// the baseline design does not adapt γ across iterations.
	AdaptiveGamma bool
	// CurvatureCutoff is the L-BFGS curvature filter constant α
	// (lbfgs.Estimator's cutoff): a candidate (s, y) pair is accepted only
	// when ⟨y,s⟩ >= CurvatureCutoff·‖s‖₂². Defaults to
	// lbfgs.DefaultCurvatureCutoff; may be overwritten by the caller before
	// Init, which pushes it into the cache's Estimator.
	CurvatureCutoff float64

	// Verbose gates the engine's optional gosl/io-based tracing, mirroring
	// gofem/fem.FEM's ShowMsg flag. Off by default: diagnostic printing is
	// a feature the caller opts into, not an ambient capability PANOC lacks.
	Verbose bool
	// Trace, if set, is called once per completed Step with the iteration
	// count, the fixed-point residual's ∞-norm and the accepted τ.
	Trace func(iter int, normFPR, tau float64)

	// scratch, preallocated once: no heap allocation occurs inside Init or Step.
	probe         la.Vector // δ used to build the Lipschitz finite-difference probe
	uTilde        la.Vector // probe point / trial u_half, reused across uses
	gradTilde     la.Vector // ∇f at the probe point (Init only)
	gradTrial     la.Vector // ∇f(u_plus) for the trial under test
	gradStepTrial la.Vector // proj_C(u_half) for the trial under test
	fprTrial      la.Vector // fixed-point residual for the trial under test
	diffScratch   la.Vector // u_plus - u, used only by the AdaptiveGamma check
}

const (
	defaultSafety         = 0.05
	defaultTauMinExponent = 20 // τ_min = 2^-20
	defaultLipschitzFloor = 1e-10
)

// NewEngine binds an Engine to a Problem and a Cache for the duration of one
// solve. The cache's dimension determines n; a mismatch between the problem
// and the u slices passed to Init/Step surfaces as DimensionMismatch at
// those call sites.
func NewEngine(problem *Problem, cache *Cache) *Engine {
	n := cache.Dimension()
	return &Engine{
		problem: problem,
		cache:   cache,
		n:       n,
		state:   stateFresh,

		Safety:          defaultSafety,
		TauMin:          math.Pow(2, -defaultTauMinExponent),
		LipschitzFloor:  defaultLipschitzFloor,
		CurvatureCutoff: lbfgs.DefaultCurvatureCutoff,

		probe:         make(la.Vector, n),
		uTilde:        make(la.Vector, n),
		gradTilde:     make(la.Vector, n),
		gradTrial:     make(la.Vector, n),
		gradStepTrial: make(la.Vector, n),
		fprTrial:      make(la.Vector, n),
		diffScratch:   make(la.Vector, n),
	}
}

// Init resets the cache to its post-construction state (clearing any
// previous solve's L-BFGS buffer and γ/L/σ/τ/normFPR), pushes
// Engine.CurvatureCutoff into the cache's L-BFGS estimator, estimates the
// Lipschitz constant L via a finite-difference probe, derives γ and σ from
// it, and evaluates f(u) and ∇f(u). u is left unchanged. The caller may
// overwrite cache.LipschitzConstant, cache.Gamma and cache.Sigma afterwards
// (used in tests for hard problems where the finite-difference estimate is
// inadequate).
func (e *Engine) Init(u la.Vector) error {
	if len(u) != e.n {
		return vec.ErrDimensionMismatch(len(u), e.n)
	}
	c := e.cache
	c.Reset()
	c.LBFGS.SetCurvatureCutoff(e.CurvatureCutoff)

	epsL := c.LipschitzUpdateEpsilon
	for i := range u {
		delta := epsL
		if ad := math.Abs(u[i]) * epsL; ad > delta {
			delta = ad
		}
		e.probe[i] = delta
		e.uTilde[i] = u[i] + delta
	}

	if status := e.problem.Grad(u, c.GradientU); status != 0 {
		return vec.ErrUserGradient(status)
	}
	if status := e.problem.Grad(e.uTilde, e.gradTilde); status != 0 {
		return vec.ErrUserGradient(status)
	}

	diffNormSq, err := vec.Norm2SqDiff(e.gradTilde, c.GradientU)
	if err != nil {
		return err
	}
	probeNorm := vec.Norm2(e.probe)
	L := math.Sqrt(diffNormSq) / probeNorm
	if L < e.LipschitzFloor {
		L = e.LipschitzFloor
	}
	c.LipschitzConstant = L
	c.Gamma = (1 - e.Safety) / L
	c.Sigma = c.Gamma * (1 - e.Safety) / 2

	var cost float64
	if status := e.problem.Cost(u, &cost); status != 0 {
		return vec.ErrUserCost(status)
	}
	c.CostValue = cost

	e.iter = 0
	e.state = stateInitialized

	if e.Verbose {
		io.Pf("panoc: init L=%v gamma=%v sigma=%v cost=%v\n", c.LipschitzConstant, c.Gamma, c.Sigma, c.CostValue)
	}
	return nil
}

// fbe evaluates the forward-backward envelope
//
//	φ_γ(u) = f(u) - ⟨∇f(u), r(u)⟩ + (1/2γ)‖r(u)‖²
//
// reusing an already-known (cost, gradient, residual) triple.
func (e *Engine) fbe(cost float64, gradU, fpr la.Vector, gamma float64) float64 {
	inner, _ := vec.Inner(gradU, fpr) // same length by construction
	return cost - inner + vec.Norm2Sq(fpr)/(2*gamma)
}

// Step performs one PANOC iteration in place on u and reports whether
// another call is required. It is UsageError to call Step before Init;
// calling Step after convergence is idempotent and returns false.
func (e *Engine) Step(u la.Vector) (bool, error) {
	if e.state == stateFresh {
		return false, vec.ErrUsage("panoc: step called before init")
	}
	if e.state == stateConverged {
		return false, nil
	}
	if len(u) != e.n {
		return false, vec.ErrDimensionMismatch(len(u), e.n)
	}
	c := e.cache

	// 1. forward-backward step at u
	e.forwardBackwardStep(u)

	// 2. termination test
	if c.NormFPR <= c.Tolerance {
		copy(u, c.GradientStep)
		e.state = stateConverged
		if e.Verbose {
			io.Pf("panoc: converged normFPR=%v\n", c.NormFPR)
		}
		return false, nil
	}
	e.state = stateIterating

	// 3. L-BFGS update and direction
	c.LBFGS.Update(u, c.FixedPointResidual)
	for i := range c.DirectionLBFGS {
		c.DirectionLBFGS[i] = -c.FixedPointResidual[i]
	}
	c.LBFGS.Apply(c.DirectionLBFGS)

	// 4. line search on the FBE
	phiU := e.fbe(c.CostValue, c.GradientU, c.FixedPointResidual, c.Gamma)
	fprNormSqAtU := vec.Norm2Sq(c.FixedPointResidual)

	var trialCost float64
	tau := 1.0
	accepted := false
	for tau >= e.TauMin {
		for i := range u {
			c.UPlus[i] = (1-tau)*c.GradientStep[i] + tau*(u[i]+c.DirectionLBFGS[i])
		}
		if status := e.problem.Cost(c.UPlus, &trialCost); status != 0 {
			return true, vec.ErrUserCost(status)
		}
		if status := e.problem.Grad(c.UPlus, e.gradTrial); status != 0 {
			return true, vec.ErrUserGradient(status)
		}
		for i := range e.uTilde {
			e.uTilde[i] = c.UPlus[i] - c.Gamma*e.gradTrial[i]
		}
		copy(e.gradStepTrial, e.uTilde)
		e.problem.Constraint.Project(e.gradStepTrial)
		for i := range u {
			e.fprTrial[i] = c.UPlus[i] - e.gradStepTrial[i]
		}
		phiPlus := e.fbe(trialCost, e.gradTrial, e.fprTrial, c.Gamma)
		if phiPlus <= phiU-c.Sigma*fprNormSqAtU {
			accepted = true
			break
		}
		tau /= 2
	}

	if !accepted {
		// LineSearchExhausted is not an error (spec.md §7): fall back to the
		// pure proximal-gradient step, u_plus = gradient_step.
		tau = 0
		copy(c.UPlus, c.GradientStep)
		if status := e.problem.Grad(c.UPlus, e.gradTrial); status != 0 {
			return true, vec.ErrUserGradient(status)
		}
		if status := e.problem.Cost(c.UPlus, &trialCost); status != 0 {
			return true, vec.ErrUserCost(status)
		}
		for i := range e.uTilde {
			e.uTilde[i] = c.UPlus[i] - c.Gamma*e.gradTrial[i]
		}
		copy(e.gradStepTrial, e.uTilde)
		e.problem.Constraint.Project(e.gradStepTrial)
		for i := range u {
			e.fprTrial[i] = c.UPlus[i] - e.gradStepTrial[i]
		}
	}

	if e.AdaptiveGamma && tau == 0 {
		if violated, err := e.forwardBackwardDecreaseViolated(u, c.UPlus, trialCost); err != nil {
			return true, err
		} else if violated {
			if err := e.halveGammaAndRetry(u); err != nil {
				return true, err
			}
			// γ (and ∇f(u)) just changed: gradient_step/fixed_point_residual/
			// normFPR were computed under the old γ at the top of this Step
			// call and no longer satisfy gradient_step = proj_C(u - γ∇f(u))
			// for the now-current γ. Recompute them before returning so the
			// exit invariant holds for the caller's next Step call.
			e.forwardBackwardStep(u)
			return true, nil
		}
	}

	c.Tau = tau

	// 5. advance
	copy(u, c.UPlus)
	copy(c.GradientStep, e.gradStepTrial)
	copy(c.FixedPointResidual, e.fprTrial)
	copy(c.GradientU, e.gradTrial)
	c.CostValue = trialCost
	c.NormFPR = vec.NormInf(c.FixedPointResidual)
	e.iter++

	if e.Trace != nil {
		e.Trace(e.iter, c.NormFPR, tau)
	}
	return true, nil
}

// forwardBackwardStep (re)computes cache.UHalfStep, cache.GradientStep,
// cache.FixedPointResidual and cache.NormFPR for u at the cache's current γ
// and ∇f(u). u itself is left unchanged.
func (e *Engine) forwardBackwardStep(u la.Vector) {
	c := e.cache
	for i := range u {
		c.UHalfStep[i] = u[i] - c.Gamma*c.GradientU[i]
	}
	copy(c.GradientStep, c.UHalfStep)
	e.problem.Constraint.Project(c.GradientStep)
	for i := range u {
		c.FixedPointResidual[i] = u[i] - c.GradientStep[i]
	}
	c.NormFPR = vec.NormInf(c.FixedPointResidual)
}

// forwardBackwardDecreaseViolated checks the plain forward-backward
// sufficient-decrease inequality
//
//	f(u_plus) <= f(u) + ⟨∇f(u), u_plus - u⟩ + (1/2γ)‖u_plus - u‖²
//
// used only by the optional AdaptiveGamma extension.
func (e *Engine) forwardBackwardDecreaseViolated(u, uPlus la.Vector, costPlus float64) (bool, error) {
	c := e.cache
	diff := e.diffScratch
	for i := range u {
		diff[i] = uPlus[i] - u[i]
	}
	inner, err := vec.Inner(c.GradientU, diff)
	if err != nil {
		return false, err
	}
	bound := c.CostValue + inner + vec.Norm2Sq(diff)/(2*c.Gamma)
	return costPlus > bound, nil
}

// halveGammaAndRetry implements the AdaptiveGamma fallback: halve γ, rescale
// σ and L accordingly, reset the L-BFGS buffer, and recompute ∇f at the
// unchanged u so the next Step call's invariants still hold.
func (e *Engine) halveGammaAndRetry(u la.Vector) error {
	c := e.cache
	c.Gamma /= 2
	c.LipschitzConstant *= 2
	c.Sigma = c.Gamma * (1 - e.Safety) / 2
	c.LBFGS.Reset()
	if status := e.problem.Grad(u, c.GradientU); status != 0 {
		return vec.ErrUserGradient(status)
	}
	return nil
}

// Converged reports whether the engine has already reached the termination
// test's stopping condition.
func (e *Engine) Converged() bool { return e.state == stateConverged }
