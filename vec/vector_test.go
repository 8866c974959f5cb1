// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func TestInnerEqualsNorm2Sq(tst *testing.T) {
	chk.PrintTitle("inner equals norm2sq on the diagonal")
	x := la.Vector{1, 2, 3, -4}
	got, err := Inner(x, x)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "⟨x,x⟩", 1e-15, got, Norm2Sq(x))
}

func TestNorm2SqDiffZeroOnEqualInputs(tst *testing.T) {
	chk.PrintTitle("norm2_sq_diff(x,x) == 0")
	x := la.Vector{3.3, -1.1, 0}
	got, err := Norm2SqDiff(x, x)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm2_sq_diff(x,x)", 1e-15, got, 0)
}

func TestNormInfDiffIsSymmetric(tst *testing.T) {
	chk.PrintTitle("norm_inf_diff(x,y) == norm_inf_diff(y,x)")
	x := la.Vector{1, -2, 5}
	y := la.Vector{0, 2, 1}
	xy, err := NormInfDiff(x, y)
	if err != nil {
		tst.Fatal(err)
	}
	yx, err := NormInfDiff(y, x)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm_inf_diff", 1e-15, xy, yx)
}

func TestNorms(tst *testing.T) {
	chk.PrintTitle("norm1, norm2, norm_inf on a simple vector")
	x := la.Vector{3, -4}
	chk.Scalar(tst, "norm1", 1e-15, Norm1(x), 7)
	chk.Scalar(tst, "norm2", 1e-15, Norm2(x), 5)
	chk.Scalar(tst, "norm_inf", 1e-15, NormInf(x), 4)
}

// The cases below reproduce the reference fixtures bundled with the PANOC
// sources this module implements (matrix_operations.rs's own unit tests).
func TestInnerProductReferenceFixture(tst *testing.T) {
	chk.PrintTitle("inner product reference fixture")
	got, err := Inner(la.Vector{1, 2, 3}, la.Vector{1, 2, 3})
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "inner", 1e-15, got, 14)
}

func TestNorm1ReferenceFixture(tst *testing.T) {
	chk.PrintTitle("norm1 reference fixture")
	chk.Scalar(tst, "norm1", 1e-15, Norm1(la.Vector{1, -2, -3}), 6)
}

func TestNorm2ReferenceFixture(tst *testing.T) {
	chk.PrintTitle("norm2 reference fixture")
	chk.Scalar(tst, "norm2", 1e-15, Norm2(la.Vector{3, 4}), 5)
}

func TestNormInfReferenceFixture(tst *testing.T) {
	chk.PrintTitle("norm_inf reference fixture")
	chk.Scalar(tst, "norm_inf", 1e-15, NormInf(la.Vector{1, -2, -3}), 3)
	chk.Scalar(tst, "norm_inf", 1e-15, NormInf(la.Vector{1, -8, -3, 0}), 8)
}

func TestNormInfDiffReferenceFixture(tst *testing.T) {
	chk.PrintTitle("norm_inf_diff reference fixture")
	x := la.Vector{1, 2, 1}
	y := la.Vector{-4, 0, 3}
	got, err := NormInfDiff(x, y)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm_inf_diff(x,y)", 1e-15, got, 5)

	same, err := NormInfDiff(x, x)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm_inf_diff(x,x)", 1e-15, same, 0)

	empty, err := NormInfDiff(la.Vector{}, la.Vector{})
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm_inf_diff([],[])", 1e-15, empty, 0)
}

func TestNorm2SqDiffReferenceFixture(tst *testing.T) {
	chk.PrintTitle("norm2_sq_diff reference fixture")
	got, err := Norm2SqDiff(la.Vector{2, 5, 7, -1}, la.Vector{4, 1, 0, 10})
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "norm2_sq_diff", 1e-10, got, 190)
}

func TestInnerDimensionMismatch(tst *testing.T) {
	chk.PrintTitle("inner([2,3], [1,2,3]) fails with DimensionMismatch")
	_, err := Inner(la.Vector{2, 3}, la.Vector{1, 2, 3})
	if err == nil {
		tst.Fatal("expected DimensionMismatch, got nil error")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindDimensionMismatch {
		tst.Fatalf("expected DimensionMismatch, got %v", err)
	}
}

func TestNorm2SqDiffDimensionMismatch(tst *testing.T) {
	chk.PrintTitle("norm2_sq_diff dimension check")
	_, err := Norm2SqDiff(la.Vector{1}, la.Vector{1, 2})
	if err == nil {
		tst.Fatal("expected DimensionMismatch, got nil error")
	}
}
