// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lbfgs implements the limited-memory BFGS direction estimator PANOC
// uses on the fixed-point residual: a ring buffer of up to m (s, y) curvature
// pairs, a curvature-rejection safeguard, and the classical two-loop
// recursion (Nocedal & Wright, Numerical Optimization, 2nd ed., Algorithm
// 7.4). The recursion's shape was cross-checked against gonum/optimize's
// own lbfgs.go and bfgs.go during development (see DESIGN.md); nothing from
// gonum is imported.
package lbfgs

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/panoc/vec"
)

// Estimator holds up to m curvature pairs for an n-dimensional problem.
// Pairs are stored ring-buffered: once full, the oldest pair is overwritten.
// Only pairs with ⟨y,s⟩ ≥ cutoff·‖s‖₂² are retained (curvature filter).
type Estimator struct {
	n, m   int
	cutoff float64

	s, y la.Vector // flattened ring buffers, m blocks of length n each
	rho  []float64 // length m
	alph []float64 // length-m scratch for the two-loop recursion

	next int // ring index the next accepted pair will occupy
	k    int // number of valid pairs, 0 <= k <= m

	uPrev, rPrev la.Vector
	hasPrev      bool

	sCand, yCand la.Vector // scratch for the candidate pair under test
}

// DefaultCurvatureCutoff is the α used by the curvature filter when none is
// supplied explicitly (spec.md §4.3's example value).
const DefaultCurvatureCutoff = 1e-12

// New allocates an estimator for dimension n and memory m. Both must be >= 1
// (BadParameter otherwise).
func New(n, m int, cutoff float64) (*Estimator, error) {
	if n < 1 {
		return nil, vec.ErrBadParameter("lbfgs: n must be >= 1, got %d", n)
	}
	if m < 1 {
		return nil, vec.ErrBadParameter("lbfgs: m must be >= 1, got %d", m)
	}
	o := &Estimator{n: n, m: m, cutoff: cutoff}
	o.s = make(la.Vector, m*n)
	o.y = make(la.Vector, m*n)
	o.rho = make([]float64, m)
	o.alph = make([]float64, m)
	o.uPrev = make(la.Vector, n)
	o.rPrev = make(la.Vector, n)
	o.sCand = make(la.Vector, n)
	o.yCand = make(la.Vector, n)
	return o, nil
}

func (o *Estimator) block(buf la.Vector, idx int) la.Vector {
	return buf[idx*o.n : (idx+1)*o.n]
}

// SetCurvatureCutoff overrides the curvature filter constant α used by
// Update (spec.md §4.3's cutoff). Safe to call at any time; it only affects
// pairs accepted from the next Update call on.
func (o *Estimator) SetCurvatureCutoff(cutoff float64) {
	o.cutoff = cutoff
}

// Reset discards all stored pairs and the remembered (u, r) of the previous
// call, returning the estimator to its post-construction state.
func (o *Estimator) Reset() {
	o.k = 0
	o.next = 0
	o.hasPrev = false
}

// Update folds in the pair observed at (u, r). On the first call after
// construction or Reset it only remembers (u, r); from the second call on it
// forms s = u - uPrev, y = r - rPrev and accepts the pair into the ring
// buffer when ⟨y,s⟩ ≥ cutoff·‖s‖₂². Rejected pairs leave the buffer
// unchanged, but uPrev/rPrev are updated regardless.
func (o *Estimator) Update(u, r la.Vector) {
	if !o.hasPrev {
		copy(o.uPrev, u)
		copy(o.rPrev, r)
		o.hasPrev = true
		return
	}

	for i := 0; i < o.n; i++ {
		o.sCand[i] = u[i] - o.uPrev[i]
		o.yCand[i] = r[i] - o.rPrev[i]
	}
	ys := dot(o.yCand, o.sCand)
	ss := dot(o.sCand, o.sCand)

	if ys >= o.cutoff*ss {
		idx := o.next
		copy(o.block(o.s, idx), o.sCand)
		copy(o.block(o.y, idx), o.yCand)
		o.rho[idx] = 1 / ys
		o.next = (o.next + 1) % o.m
		if o.k < o.m {
			o.k++
		}
	}

	copy(o.uPrev, u)
	copy(o.rPrev, r)
}

// Apply overwrites q with Hq, H being the L-BFGS inverse-Hessian estimate
// built from the retained pairs (two-loop recursion). With zero accepted
// pairs q is left unchanged, i.e. apply falls back to the pure gradient
// direction.
func (o *Estimator) Apply(q la.Vector) {
	if o.k == 0 {
		return
	}

	// newest-first backward loop
	for i := 0; i < o.k; i++ {
		idx := o.ringIndex(i)
		s := o.block(o.s, idx)
		y := o.block(o.y, idx)
		o.alph[idx] = o.rho[idx] * dot(s, q)
		for j := 0; j < o.n; j++ {
			q[j] -= o.alph[idx] * y[j]
		}
	}

	// H0 = gamma * I, gamma from the most recent pair
	lastIdx := o.ringIndex(0)
	y := o.block(o.y, lastIdx)
	s := o.block(o.s, lastIdx)
	yy := dot(y, y)
	gamma := 1.0
	if yy > 0 {
		gamma = dot(s, y) / yy
	}
	for j := range q {
		q[j] *= gamma
	}

	// oldest-first forward loop
	for i := o.k - 1; i >= 0; i-- {
		idx := o.ringIndex(i)
		s := o.block(o.s, idx)
		y := o.block(o.y, idx)
		beta := o.rho[idx] * dot(y, q)
		for j := 0; j < o.n; j++ {
			q[j] += (o.alph[idx] - beta) * s[j]
		}
	}
}

// ringIndex returns the ring-buffer slot of the i-th most recent pair
// (i=0 is newest).
func (o *Estimator) ringIndex(i int) int {
	return (o.next - 1 - i + o.m) % o.m
}

// dot is an unchecked inner product over internal same-length scratch
// buffers; vec.Inner's dimension check is for the public API, not this
// hot loop.
func dot(a, b la.Vector) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
