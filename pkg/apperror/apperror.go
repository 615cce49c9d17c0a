// Package apperror defines the error kinds surfaced to API clients.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindBadRequest   Kind = "bad_request"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnverified   Kind = "unverified"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// Stable codes clients can branch on.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeServiceNotFound    = "SERVICE_NOT_FOUND"
	CodeBookingNotFound    = "BOOKING_NOT_FOUND"
	CodeBlockNotFound      = "BLOCK_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeSlotInPast         = "SLOT_IN_PAST"
	CodeSlotTaken          = "SLOT_TAKEN"
	CodeSlotDisabled       = "SLOT_DISABLED"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeBlockRangeRequired = "BLOCK_RANGE_REQUIRED"
	CodeBlockInvalidRange  = "BLOCK_INVALID_RANGE"
	CodeBlockInPast        = "BLOCK_IN_PAST"
	CodeBlockOverlap       = "BLOCK_OVERLAP"
	CodeInvalidSchedule    = "INVALID_SCHEDULE"
	CodeFixedDuration      = "FIXED_DURATION"
	CodeServiceInUse       = "SERVICE_IN_USE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodePhoneTaken         = "PHONE_TAKEN"
	CodeAlreadyVerified    = "EMAIL_ALREADY_VERIFIED"
	CodeInvalidCode        = "INVALID_CODE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error carries a kind, a stable code and a client-safe message.
// Err, when set, is the underlying cause and is never shown to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
	// Fields holds per-field validation messages keyed by json name.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, CodeValidation, message)
}

// InvalidFields reports request validation failures field by field.
func InvalidFields(fields map[string]string) *Error {
	e := Validation("validation failed")
	e.Fields = fields
	return e
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func BadRequest(code, message string) *Error {
	return New(KindBadRequest, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, CodeForbidden, message)
}

func Internal(err error, message string) *Error {
	return Wrap(err, KindInternal, CodeInternal, message)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Sentinels for the booking engine. Compare with errors.Is.
var (
	ErrServiceNotFound  = NotFound(CodeServiceNotFound, "service not found")
	ErrBookingNotFound  = NotFound(CodeBookingNotFound, "booking not found")
	ErrBlockNotFound    = NotFound(CodeBlockNotFound, "block not found")
	ErrUserNotFound     = NotFound(CodeUserNotFound, "user not found")
	ErrEmailNotVerified = New(KindUnverified, CodeEmailNotVerified, "email not verified")
	ErrSlotInPast       = BadRequest(CodeSlotInPast, "cannot book a time in the past")
	ErrSlotTaken        = BadRequest(CodeSlotTaken, "slot already taken")
	ErrSlotDisabled     = BadRequest(CodeSlotDisabled, "slot disabled by owner")
	ErrInvalidStatus    = BadRequest(CodeInvalidStatus, "invalid booking status")
	ErrBlockRange       = BadRequest(CodeBlockRangeRequired, "either fullDay or both startTime and endTime are required")
	ErrBlockInvalid     = BadRequest(CodeBlockInvalidRange, "start time must be before end time")
	ErrBlockInPast      = BadRequest(CodeBlockInPast, "cannot block a range that already ended")
	ErrBlockOverlap     = BadRequest(CodeBlockOverlap, "overlaps existing block")
	ErrFixedDuration    = BadRequest(CodeFixedDuration, "service duration is fixed at 35 minutes")
	ErrServiceInUse     = Conflict(CodeServiceInUse, "service has bookings; only price and active can change")
)
