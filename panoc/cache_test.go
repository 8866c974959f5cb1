// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/panoc/vec"
)

func TestNewCacheBadParameters(tst *testing.T) {
	chk.PrintTitle("n=0, m=0 and epsilon<=0 are BadParameter")
	cases := []struct {
		n       int
		epsilon float64
		m       int
	}{
		{0, 1e-6, 5},
		{2, 1e-6, 0},
		{2, 0, 5},
		{2, -1, 5},
	}
	for _, c := range cases {
		_, err := NewCache(c.n, c.epsilon, c.m)
		if err == nil {
			tst.Fatalf("expected BadParameter for %+v", c)
		}
		if ve, ok := err.(*vec.Error); !ok || ve.Kind != vec.KindBadParameter {
			tst.Fatalf("expected BadParameter, got %v", err)
		}
	}
}

func TestCacheResetClearsScalarsAndLBFGS(tst *testing.T) {
	chk.PrintTitle("reset clears gamma/sigma/tau/L/normFPR and the L-BFGS buffer")
	c, err := NewCache(2, 1e-6, 3)
	if err != nil {
		tst.Fatal(err)
	}
	c.Gamma, c.Sigma, c.Tau, c.LipschitzConstant, c.NormFPR, c.CostValue = 1, 2, 3, 4, 5, 6
	c.LBFGS.Update([]float64{0, 0}, []float64{0, 0})
	c.LBFGS.Update([]float64{1, 1}, []float64{2, 2})

	c.Reset()

	if c.Gamma != 0 || c.Sigma != 0 || c.Tau != 0 || c.LipschitzConstant != 0 || c.NormFPR != 0 || c.CostValue != 0 {
		tst.Fatalf("expected all scalars cleared, got %+v", c)
	}
	q := []float64{5, 5}
	c.LBFGS.Apply(q)
	if q[0] != 5 || q[1] != 5 {
		tst.Fatalf("expected lbfgs reset (identity apply), got %v", q)
	}
}

func TestCacheDimensionAndMemory(tst *testing.T) {
	chk.PrintTitle("cache reports its allocated dimension and memory")
	c, err := NewCache(4, 1e-6, 7)
	if err != nil {
		tst.Fatal(err)
	}
	if c.Dimension() != 4 {
		tst.Fatalf("expected dimension 4, got %d", c.Dimension())
	}
	if c.Memory() != 7 {
		tst.Fatalf("expected memory 7, got %d", c.Memory())
	}
}
