package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by what the caller can do about it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Code string

const (
	CodeMovieNotFound    Code = "MOVIE_NOT_FOUND"
	CodeTheaterNotFound  Code = "THEATER_NOT_FOUND"
	CodeShowtimeNotFound Code = "SHOWTIME_NOT_FOUND"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeBookingNotFound  Code = "BOOKING_NOT_FOUND"

	CodeValidationFailed    Code = "VALIDATION_FAILED"
	CodeInvalidID           Code = "INVALID_ID"
	CodeInvalidSeatNumber   Code = "INVALID_SEAT_NUMBER"
	CodeCapacityExceeded    Code = "CAPACITY_EXCEEDED"
	CodeInvalidCapacity     Code = "INVALID_CAPACITY"
	CodeShowtimeHasBookings Code = "SHOWTIME_HAS_BOOKINGS"
	CodeTheaterInUse        Code = "THEATER_IN_USE"
	CodeMovieHasShowtimes   Code = "MOVIE_HAS_SHOWTIMES"

	CodeTheaterNameExists Code = "THEATER_NAME_EXISTS"
	CodeUsernameExists    Code = "USERNAME_EXISTS"
	CodeShowtimeOverlap   Code = "SHOWTIME_OVERLAP"
	CodeSeatAlreadyBooked Code = "SEAT_ALREADY_BOOKED"
	CodeDuplicateSeat     Code = "DUPLICATE_SEAT"
	CodeInsufficientSeats Code = "INSUFFICIENT_SEATS"
	CodeEditConflict      Code = "EDIT_CONFLICT"
	CodeLockTimeout       Code = "LOCK_TIMEOUT"
)

// Error is an expected, user-actionable failure. Its message is safe to
// return to the caller as-is.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code Code, format string, args ...any) *Error {
	return newError(KindNotFound, code, format, args...)
}

func BadRequest(code Code, format string, args ...any) *Error {
	return newError(KindBadRequest, code, format, args...)
}

func Conflict(code Code, format string, args ...any) *Error {
	return newError(KindConflict, code, format, args...)
}

// Validation reports per-field input errors.
func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Code:    CodeValidationFailed,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Wrap attaches a cause to e and returns it.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}
