// Package apperror provides the caller-facing business errors of the swap service.
//
// Every error carries a machine-readable Code, a message Key meant for client-side
// translation, and the offending values as Params:
//
//	return apperror.BadRequest("onlyOneSwapConditionMustBeSet", "giveAway")
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeBadRequest               Code = "BAD_REQUEST"
	CodeIllegalSwapRequest       Code = "ILLEGAL_SWAP_REQUEST"
	CodeNotFound                 Code = "NOT_FOUND"
	CodeSwapRequestExistsAlready Code = "SWAP_REQUEST_EXISTS_ALREADY"
	CodeConflict                 Code = "CONFLICT"
	CodeUnauthorized             Code = "UNAUTHORIZED"
	CodeForbidden                Code = "FORBIDDEN"
	CodeInternal                 Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest, CodeIllegalSwapRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSwapRequestExistsAlready, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// parent returns the broader code this one specialises, if any.
func (c Code) parent() Code {
	if c == CodeIllegalSwapRequest {
		return CodeBadRequest
	}
	return ""
}

// Error is a business error with a code, a message key and parameters.
type Error struct {
	Code   Code
	Key    string
	Params []string
	cause  error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Key
	if len(e.Params) > 0 {
		msg += " [" + strings.Join(e.Params, ", ") + "]"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code. An IllegalSwapRequest also
// matches ErrBadRequest.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code || (t.Code != "" && e.Code.parent() == t.Code)
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Key: e.Key, Params: e.Params, cause: err}
}

// Sentinel errors for use with errors.Is.
var (
	ErrBadRequest               = &Error{Code: CodeBadRequest, Key: "badRequest"}
	ErrIllegalSwapRequest       = &Error{Code: CodeIllegalSwapRequest, Key: "illegalSwapRequest"}
	ErrNotFound                 = &Error{Code: CodeNotFound, Key: "notFound"}
	ErrSwapRequestExistsAlready = &Error{Code: CodeSwapRequestExistsAlready, Key: "swapRequestExistsAlready"}
	ErrConflict                 = &Error{Code: CodeConflict, Key: "conflict"}
	ErrUnauthorized             = &Error{Code: CodeUnauthorized, Key: "unauthorized"}
	ErrForbidden                = &Error{Code: CodeForbidden, Key: "forbidden"}
	ErrInternal                 = &Error{Code: CodeInternal, Key: "internalError"}
)

func newError(code Code, key string, params []string) *Error {
	return &Error{Code: code, Key: key, Params: params}
}

// BadRequest reports malformed or inconsistent input.
func BadRequest(key string, params ...string) *Error {
	return newError(CodeBadRequest, key, params)
}

// IllegalSwapRequest reports a referenced entity that exists but fails a
// relationship or membership check.
func IllegalSwapRequest(key string, params ...string) *Error {
	return newError(CodeIllegalSwapRequest, key, params)
}

// NotFound reports a referenced id that does not exist.
func NotFound(key string, params ...string) *Error {
	return newError(CodeNotFound, key, params)
}

// SwapRequestExistsAlready reports a duplicate (sender, receiver, book) triple.
func SwapRequestExistsAlready(senderID, receiverID, bookID string) *Error {
	return newError(CodeSwapRequestExistsAlready, "swapRequestExistsAlready", []string{senderID, receiverID, bookID})
}

// Conflict reports a uniqueness conflict outside of swap requests.
func Conflict(key string, params ...string) *Error {
	return newError(CodeConflict, key, params)
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(key string) *Error {
	return newError(CodeUnauthorized, key, nil)
}

// Forbidden reports an authenticated caller acting on something they don't own.
func Forbidden(key string, params ...string) *Error {
	return newError(CodeForbidden, key, params)
}

// Wrap wraps err as an internal error with the given key.
func Wrap(err error, key string) *Error {
	return &Error{Code: CodeInternal, Key: key, cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
