// Package apperr defines the error taxonomy shared by stores, services and
// the HTTP layer. Callers wrap these sentinels with context using %w and
// inspect them with errors.Is or Kind.
package apperr

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateIdentity  = errors.New("duplicate identity")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrIO                 = errors.New("io error")
	ErrPartialFailure     = errors.New("partial failure")
)

const (
	KindValidation         = "ValidationError"
	KindDuplicateIdentity  = "DuplicateIdentity"
	KindInvalidCredentials = "InvalidCredentials"
	KindUnauthenticated    = "Unauthenticated"
	KindForbidden          = "Forbidden"
	KindNotFound           = "NotFound"
	KindIO                 = "IOError"
	KindPartialFailure     = "PartialFailure"
	KindInternal           = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrPartialFailure, KindPartialFailure},
	{ErrValidation, KindValidation},
	{ErrDuplicateIdentity, KindDuplicateIdentity},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrForbidden, KindForbidden},
	{ErrNotFound, KindNotFound},
	{ErrIO, KindIO},
}

// Kind returns the taxonomy name of err, or KindInternal for anything that
// does not wrap one of the sentinels. A partial failure wins over the cause
// it carries.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// PartialFailureError reports which side of a two-sided update did not apply.
type PartialFailureError struct {
	Side string
	Err  error
}

func (e *PartialFailureError) Error() string {
	msg := "partial failure: " + e.Side + " side not updated"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartialFailureError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPartialFailure}
	}
	return []error{ErrPartialFailure, e.Err}
}
