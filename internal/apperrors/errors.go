// Package apperrors defines the typed failures every operation surfaces to
// its caller. Handlers map them to HTTP statuses; nothing in this taxonomy
// is fatal to the process.
package apperrors

import (
	"errors"
	"fmt"
)

// Reason is a stable, machine-checkable code carried by ValidationError.
type Reason string

const (
	ReasonPastDate          Reason = "PAST_DATE"
	ReasonInvalidRange      Reason = "INVALID_RANGE"
	ReasonCapacityExceeded  Reason = "CAPACITY_EXCEEDED"
	ReasonRoomUnavailable   Reason = "ROOM_UNAVAILABLE"
	ReasonRoomConflict      Reason = "ROOM_CONFLICT"
	ReasonInvalidTransition Reason = "INVALID_TRANSITION"
	ReasonNotCheckInDate    Reason = "NOT_CHECK_IN_DATE"
	ReasonNotActive         Reason = "RESERVATION_NOT_ACTIVE"
	ReasonNotCheckedOut     Reason = "RESERVATION_NOT_CHECKED_OUT"
	ReasonReviewExists      Reason = "REVIEW_EXISTS"
	ReasonInvalidRating     Reason = "INVALID_RATING"
	ReasonInvalidInput      Reason = "INVALID_INPUT"
	ReasonResourceInUse     Reason = "RESOURCE_IN_USE"
)

// ValidationError is a business-rule or malformed-input failure. The caller
// can recover by correcting input; it is never retried automatically.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func Validation(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError is a role or ownership guard failure.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func Authorization(format string, args ...any) error {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a lost race on the atomic booking check. The caller
// should re-submit the whole operation; the engine never retries itself
// because a retry can change user-visible pricing and availability.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
