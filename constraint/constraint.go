// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package constraint implements the projection contract PANOC needs onto
// simple constraint sets C ⊆ ℝⁿ, plus the concrete shapes in the initial
// set: the centered 2-norm ball and the whole space.
package constraint

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/panoc/vec"
)

// Set is the capability every constraint must implement: project u in place
// onto C. Implementations must not allocate, must be deterministic, and
// must be idempotent: Project(Project(u)) == Project(u), with u already in
// C left unchanged bit-for-bit.
type Set interface {
	Project(u la.Vector)
}

// Ball2 is the Euclidean ball {x : ‖x‖₂ ≤ Radius} centered at the origin.
type Ball2 struct {
	Radius float64
}

// NewBall2 returns a ball of the given radius. radius must be > 0
// (BadParameter otherwise).
func NewBall2(radius float64) (*Ball2, error) {
	if radius <= 0 {
		return nil, vec.ErrBadParameter("ball2 radius must be > 0, got %v", radius)
	}
	return &Ball2{Radius: radius}, nil
}

// Project scales u by min(1, Radius/‖u‖₂) when ‖u‖₂ > Radius, and leaves u
// untouched otherwise (in particular for u == 0).
func (b *Ball2) Project(u la.Vector) {
	norm := vec.Norm2(u)
	if norm <= b.Radius || norm == 0 {
		return
	}
	scale := b.Radius / norm
	for i := range u {
		u[i] *= scale
	}
}

// Whole is C = ℝⁿ: projection is the identity.
type Whole struct{}

// Project is a no-op: every point of ℝⁿ is already in C.
func (Whole) Project(u la.Vector) {}
