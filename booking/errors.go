package booking

import (
	"errors"
	"net/http"
)

// Code is the machine-readable rejection reason.
type Code string

const (
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeDateNotBookable      Code = "DATE_NOT_BOOKABLE"
	CodeSlotNotFound         Code = "SLOT_NOT_FOUND"
	CodeSlotDateMismatch     Code = "SLOT_DATE_MISMATCH"
	CodeSlotFull             Code = "SLOT_FULL"
	CodeDuplicateReservation Code = "DUPLICATE_RESERVATION"
	CodeStorageError         Code = "STORAGE_ERROR"
	// CodeNotificationFailed is only ever logged.
	CodeNotificationFailed Code = "NOTIFICATION_FAILED"
)

var codeStatus = map[Code]int{
	CodeInvalidInput:         http.StatusBadRequest,
	CodeDateNotBookable:      http.StatusBadRequest,
	CodeSlotNotFound:         http.StatusNotFound,
	CodeSlotDateMismatch:     http.StatusBadRequest,
	CodeSlotFull:             http.StatusConflict,
	CodeDuplicateReservation: http.StatusConflict,
	CodeStorageError:         http.StatusInternalServerError,
}

// HTTPStatus maps the code to a response status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a rejected booking operation.
type Error struct {
	Code    Code
	Message string
	// Fields maps request field names to validation messages.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrInvalidInput         = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrDateNotBookable      = &Error{Code: CodeDateNotBookable, Message: "only odd dates in the booking month are allowed"}
	ErrSlotNotFound         = &Error{Code: CodeSlotNotFound, Message: "slot not found"}
	ErrSlotDateMismatch     = &Error{Code: CodeSlotDateMismatch, Message: "slot does not match selected date"}
	ErrSlotFull             = &Error{Code: CodeSlotFull, Message: "slot is full"}
	ErrDuplicateReservation = &Error{Code: CodeDuplicateReservation, Message: "duplicate reservation"}
	ErrStorage              = &Error{Code: CodeStorageError, Message: "storage error"}
)

func reject(sentinel *Error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message}
}

func storageError(cause error) *Error {
	return &Error{Code: CodeStorageError, Message: ErrStorage.Message, Cause: cause}
}

func invalidInput(message string, fields map[string]string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message, Fields: fields}
}

// CodeOf returns the code carried by err, or CodeStorageError when err is not
// a booking error.
func CodeOf(err error) Code {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeStorageError
}
