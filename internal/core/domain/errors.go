package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can branch on it.
type ErrorKind string

const (
	KindInvalidInput    ErrorKind = "InvalidInput"
	KindNotFound        ErrorKind = "NotFound"
	KindDuplicateID     ErrorKind = "DuplicateId"
	KindEtaUnavailable  ErrorKind = "EtaUnavailable"
	KindUnexpectedError ErrorKind = "UnexpectedError"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("shipment not found")
	ErrDuplicateID     = errors.New("shipment already exists")
	ErrEtaUnavailable  = errors.New("eta unavailable")
	ErrUnexpectedError = errors.New("unexpected error")
)

var sentinels = map[ErrorKind]error{
	KindInvalidInput:    ErrInvalidInput,
	KindNotFound:        ErrNotFound,
	KindDuplicateID:     ErrDuplicateID,
	KindEtaUnavailable:  ErrEtaUnavailable,
	KindUnexpectedError: ErrUnexpectedError,
}

// Error is the structured failure returned by every registry and query
// operation. It unwraps to the sentinel of its kind, so
// errors.Is(err, ErrNotFound) holds for a NotFound Error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) *Error {
	return NewError(KindInvalidInput, format, args...)
}

func NotFound(trackingID string) *Error {
	return NewError(KindNotFound, "shipment %s not found", trackingID)
}

func DuplicateID(trackingID string) *Error {
	return NewError(KindDuplicateID, "shipment %s already exists", trackingID)
}

// KindOf returns the kind of err. Errors that are not *Error (or wrap one)
// are reported as UnexpectedError; nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpectedError
}
