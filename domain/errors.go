package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConstraint      = errors.New("invalid constraint")
	ErrComparisonProductCount = errors.New("comparison requires between 2 and 5 products")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrInvalidCategory        = errors.New("invalid recommendation category")
	ErrInvalidFeedback        = errors.New("invalid feedback")
	ErrServiceUnavailable     = errors.New("service unavailable")
	ErrNotFound               = errors.New("not found")
)

// ConstraintError names the offending field and bound.
type ConstraintError struct {
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %s: %s", e.Field, e.Reason)
}

func (e *ConstraintError) Unwrap() error {
	return ErrInvalidConstraint
}

func NewConstraintError(field, format string, args ...any) error {
	return &ConstraintError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
