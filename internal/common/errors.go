package common

import "errors"

// BusinessError is the error type every layer above the repository reports to clients.
type BusinessError struct {
	Code    ErrorCode
	message string
	cause   error
}

func NewError(code ErrorCode) *BusinessError {
	return &BusinessError{Code: code}
}

func NewErrorMessage(code ErrorCode, message string) *BusinessError {
	return &BusinessError{Code: code, message: message}
}

func WrapError(code ErrorCode, cause error) *BusinessError {
	return &BusinessError{Code: code, cause: cause}
}

func (e *BusinessError) Error() string {
	msg := e.Message()
	if e.cause != nil {
		return e.Code.Code + ": " + msg + ": " + e.cause.Error()
	}
	return e.Code.Code + ": " + msg
}

// Message is the client-facing text: the override when set, the catalogue text otherwise.
func (e *BusinessError) Message() string {
	if e.message != "" {
		return e.message
	}
	return e.Code.Message
}

func (e *BusinessError) Unwrap() error {
	return e.cause
}

// Is matches any BusinessError carrying the same code.
func (e *BusinessError) Is(target error) bool {
	var other *BusinessError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code.Code == e.Code.Code
}

// CodeOf extracts the ErrorCode from err, falling back to COMMON_002.
func CodeOf(err error) (ErrorCode, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return CommonInternalError, false
}
