// Package goerror provides the structured error passed from use cases to the
// HTTP layer.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by outbound adapters when a lookup matches nothing.
var ErrNotFound = errors.New("resource not found")

// Type classifies errors by who is at fault.
type Type int

const (
	// TypeServer is a failure on our side or in a dependency.
	TypeServer Type = iota
	// TypeValidation is a request the caller has to fix.
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error carries a user-facing message and classification next to the
// underlying cause.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error returns the cause when there is one, otherwise the message.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	return e.errType.String()
}

// String is the verbose form used in logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

// Msg returns the message safe to show to the caller.
func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

// Fields returns per-field violations set through NewInvalidInput key/values.
func (e *Error) Fields() map[string]string { return e.fields }

func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat, CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewServerMsg is NewServer with a caller-visible message.
func NewServerMsg(err error, msg string) error {
	return &Error{err: err, msg: msg, errType: TypeServer, code: CodeInternal}
}

// NewInvalidInput reports a validation failure. Either pass the validator's
// error, or nil followed by field/message pairs. An odd number of pairs is
// treated as a malformed request.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports a body that could not be decoded. The first msg,
// if any, replaces the default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
