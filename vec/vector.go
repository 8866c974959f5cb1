// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vec implements pure, allocation-free primitives over float64
// slices: inner products, 1/2/∞ norms and their pairwise-difference
// variants. These back the PANOC engine's forward-backward step, its FBE
// line search and the Euclidean-ball projection.
package vec

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// Inner returns Σ aᵢbᵢ. Fails with DimensionMismatch if len(a) != len(b).
func Inner(a, b la.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch(len(a), len(b))
	}
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s, nil
}

// Norm1 returns Σ|aᵢ|.
func Norm1(a la.Vector) float64 {
	var s float64
	for _, v := range a {
		s += math.Abs(v)
	}
	return s
}

// Norm2Sq returns Σaᵢ².
func Norm2Sq(a la.Vector) float64 {
	var s float64
	for _, v := range a {
		s += v * v
	}
	return s
}

// Norm2 returns √Σaᵢ².
func Norm2(a la.Vector) float64 {
	return math.Sqrt(Norm2Sq(a))
}

// NormInf returns maxᵢ|aᵢ|.
func NormInf(a la.Vector) float64 {
	var m float64
	for _, v := range a {
		if av := math.Abs(v); av > m {
			m = av
		}
	}
	return m
}

// Norm2SqDiff returns Σ(aᵢ-bᵢ)². Fails with DimensionMismatch if len(a) != len(b).
func Norm2SqDiff(a, b la.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch(len(a), len(b))
	}
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s, nil
}

// NormInfDiff returns maxᵢ|aᵢ-bᵢ|. Fails with DimensionMismatch if len(a) != len(b).
func NormInfDiff(a, b la.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch(len(a), len(b))
	}
	var m float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m, nil
}
