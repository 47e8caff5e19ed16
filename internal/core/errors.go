package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidationFailed means the draft is not submittable. The concrete error is a *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
	// ErrNotFound means a referenced order or customer does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyResult means reconstruction produced no branches.
	ErrEmptyResult = errors.New("no items to copy")
	// ErrSubmissionFailed wraps any error returned by the order store on submit.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrRejected is wrapped by every allocator rejection.
	ErrRejected = errors.New("rejected")
	// ErrReadOnly means the order can no longer be modified.
	ErrReadOnly = errors.New("order is read-only")
	// ErrSubmitInProgress means a submission of the same draft is already running.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

var (
	ErrNoFreeAddress       = fmt.Errorf("%w: every shipping address already has a branch", ErrRejected)
	ErrLastBranch          = fmt.Errorf("%w: an order needs at least one branch", ErrRejected)
	ErrAddressInUse        = fmt.Errorf("%w: shipping address already used by another branch", ErrRejected)
	ErrUnknownAddress      = fmt.Errorf("%w: shipping address does not belong to the customer", ErrRejected)
	ErrBranchNotFound      = fmt.Errorf("%w: branch not found", ErrRejected)
	ErrItemNotFound        = fmt.Errorf("%w: item not found", ErrRejected)
	ErrInvalidDiscountMode = fmt.Errorf("%w: invalid discount mode", ErrRejected)
)

// FieldError names one offending field of a draft.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that blocks submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// HasField reports whether the named field is among the failures.
func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.Field == name {
			return true
		}
	}
	return false
}
