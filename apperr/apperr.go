// Package apperr defines the closed set of error kinds the engine returns.
// Every failure crossing the service boundary is one of these kinds; callers
// dispatch on the kind, not on error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnknown Kind = "UNKNOWN"

	// Suggestion slot workflow.
	KindInvalidSlotWindow Kind = "INVALID_SLOT_WINDOW"
	KindSlotFull          Kind = "SLOT_FULL"
	KindSlotExpired       Kind = "SLOT_EXPIRED"
	KindAlreadyDecided    Kind = "ALREADY_DECIDED"

	// Setlist composition.
	KindCapacityExceeded        Kind = "CAPACITY_EXCEEDED"
	KindUnfamiliarQuotaExceeded Kind = "UNFAMILIAR_QUOTA_EXCEEDED"
	KindInvalidOrder            Kind = "INVALID_ORDER"

	// Staffing.
	KindNotEligible Kind = "NOT_ELIGIBLE"

	// Storage.
	KindNotFound           Kind = "NOT_FOUND"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind carried by err, or KindUnknown for errors that
// did not originate in the engine.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether a caller may retry the failed call verbatim.
// Only storage outages qualify; every other kind needs different input or
// a different precondition state first.
func Retryable(err error) bool {
	return KindOf(err) == KindStorageUnavailable
}
