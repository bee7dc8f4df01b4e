// Package apperr defines the closed set of business failure variants the
// platform distinguishes. Handlers switch on the code to pick an HTTP status;
// nothing ever inspects error message text.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeTestNotStarted   Code = "TEST_NOT_STARTED"
	CodeTestEnded        Code = "TEST_ENDED"
	CodeDuplicateAttempt Code = "DUPLICATE_ATTEMPT"
	CodeAlreadySubmitted Code = "SESSION_ALREADY_SUBMITTED"
	CodeMaxExtensions    Code = "MAX_EXTENSIONS_REACHED"
	CodeAnswerKeyMissing Code = "ANSWER_KEY_MISSING"
	CodeInternal         Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two apperr values by code alone, so callers can
// compare against a bare New(code, "") sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

// CodeOf extracts the variant code from err, or CodeInternal when err is not
// an apperr value (unexpected storage failures land here).
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsConflict reports whether the code belongs to the validation/state-conflict
// class surfaced to clients as a 400-equivalent.
func IsConflict(code Code) bool {
	switch code {
	case CodeTestNotStarted, CodeTestEnded, CodeDuplicateAttempt,
		CodeAlreadySubmitted, CodeMaxExtensions:
		return true
	}
	return false
}
