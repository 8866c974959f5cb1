// Copyright 2016 The Panoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import (
	"github.com/cpmech/gosl/chk"
)

// Kind classifies the failures the solver can report. All of them are
// surfaced to the caller; none are retried internally.
type Kind int

// kinds of errors reported across vec, constraint, lbfgs and panoc
const (
	KindDimensionMismatch Kind = iota
	KindBadParameter
	KindUsageError
	KindUserCostFailure
	KindUserGradientFailure
)

func (k Kind) String() string {
	switch k {
	case KindDimensionMismatch:
		return "DimensionMismatch"
	case KindBadParameter:
		return "BadParameter"
	case KindUsageError:
		return "UsageError"
	case KindUserCostFailure:
		return "UserCostFailure"
	case KindUserGradientFailure:
		return "UserGradientFailure"
	}
	return "Unknown"
}

// Error is the single error type returned across the solver. Status carries
// the user callable's nonzero return code for UserCostFailure and
// UserGradientFailure; it is zero otherwise.
type Error struct {
	Kind   Kind
	Status int
	text   string
}

func (e *Error) Error() string { return e.text }

// Is lets errors.Is match on Kind alone, e.g.
// errors.Is(err, &vec.Error{Kind: vec.KindBadParameter}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(k Kind, status int, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Status: status, text: chk.Err(format, args...).Error()}
}

// ErrDimensionMismatch reports two incompatible slice lengths.
func ErrDimensionMismatch(na, nb int) *Error {
	return newError(KindDimensionMismatch, 0, "dimension mismatch: %d != %d", na, nb)
}

// ErrBadParameter reports an invalid constructor argument.
func ErrBadParameter(format string, args ...interface{}) *Error {
	return newError(KindBadParameter, 0, format, args...)
}

// ErrUsage reports a call made out of the required sequence (e.g. step before init).
func ErrUsage(format string, args ...interface{}) *Error {
	return newError(KindUsageError, 0, format, args...)
}

// ErrUserCost wraps a nonzero status returned by the user's cost callable.
func ErrUserCost(status int) *Error {
	return newError(KindUserCostFailure, status, "user cost callable failed with status %d", status)
}

// ErrUserGradient wraps a nonzero status returned by the user's gradient callable.
func ErrUserGradient(status int) *Error {
	return newError(KindUserGradientFailure, status, "user gradient callable failed with status %d", status)
}
