package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // invalid or unsupported font format
	ECONNECTION int = 124 // network failure, non-success response
	EINTERNAL   int = 125 // internal error
	EPARSE      int = 126 // no extractable font reference in a stylesheet
	EEMPTY      int = 127 // subset would contain no real glyph
	ECANCELED   int = 128 // operation canceled by the caller
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid format"
	case ECONNECTION:
		return "network failure"
	case EINTERNAL:
		return "internal error"
	case EPARSE:
		return "parse failure"
	case EEMPTY:
		return "empty subset"
	case ECANCELED:
		return "canceled"
	}
	return "undefined error"
}

// Sentinel errors, one per error code of the taxonomy. Any error carrying
// the corresponding code matches them with errors.Is:
//
//	if errors.Is(err, core.ErrEmptySubset) { … }
var (
	ErrInvalidFormat  error = codeSentinel(EINVALID)
	ErrNetworkFailure error = codeSentinel(ECONNECTION)
	ErrParseFailure   error = codeSentinel(EPARSE)
	ErrEmptySubset    error = codeSentinel(EEMPTY)
	ErrMissing        error = codeSentinel(EMISSING)
	ErrCanceled       error = codeSentinel(ECANCELED)
)

type codeSentinel int

func (c codeSentinel) Error() string {
	return errorText(int(c))
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != errorText(e.code) {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

// Is lets errors.Is match a core error against the sentinel of its code.
func (e coreError) Is(target error) bool {
	if c, ok := target.(codeSentinel); ok {
		return int(c) == e.code
	}
	return false
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// Canceled wraps a context error into a core error with code ECANCELED.
// Errors already carrying ECANCELED are returned unchanged.
func Canceled(err error) error {
	if err == nil {
		return nil
	}
	if Code(err) == ECANCELED {
		return err
	}
	return WrapError(err, ECANCELED, "operation canceled")
}

// UserError prints an error to stderr, preferring the user message.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
