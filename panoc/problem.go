// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package panoc implements the PANOC (Proximal Averaged Newton-type for
// Optimal Control) solver: a forward-backward splitting iteration
// accelerated by a limited-memory quasi-Newton direction and globalized by
// a line search on the forward-backward envelope (FBE). See the component
// packages vec, constraint and lbfgs for the leaf primitives this bundles.
package panoc

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/panoc/constraint"
)

// CostFunc is the user's cost callable: read u, write f(u) to out, return 0
// on success and any nonzero status to abort the solve. Must not mutate u.
//
// Named after gosl/opt.ConjGrad's and gosl/num.NlSolver's Ffcn/Jfcn fields
// (fun.Sv/fun.Vv), extended with the status-code return PANOC's external
// interface requires.
type CostFunc func(u la.Vector, out *float64) int

// GradFunc is the user's gradient callable: write ∇f(u) into grad (which has
// len(grad) == len(u)), return 0 on success and any nonzero status to abort
// the solve.
type GradFunc func(u, grad la.Vector) int

// Problem bundles a constraint set and the two opaque user callables for the
// duration of one solve. No validation is performed at construction; an
// invalid callable only surfaces as a nonzero status at evaluation.
type Problem struct {
	Constraint constraint.Set
	Grad       GradFunc
	Cost       CostFunc
}

// NewProblem bundles the three pieces that define minimize f(u)+g(u).
func NewProblem(c constraint.Set, grad GradFunc, cost CostFunc) *Problem {
	return &Problem{Constraint: c, Grad: grad, Cost: cost}
}
