package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type ErrorCode string

const (
	// ErrorCodeTimeout: the call did not complete in time; the processor may or may not
	// have acted on it.
	ErrorCodeTimeout ErrorCode = "timeout"
	// ErrorCodeRejected: the processor answered 4xx.
	ErrorCodeRejected ErrorCode = "rejected"
	// ErrorCodeUnavailable: transport failure or 5xx.
	ErrorCodeUnavailable ErrorCode = "unavailable"
	ErrorCodeDecode      ErrorCode = "decode"
	ErrorCodeNotFound    ErrorCode = "not_found"
)

// ProviderError describes a failed processor call.
type ProviderError struct {
	Op         string
	Code       ErrorCode
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("mercadopago %s: %s", e.Op, e.Code)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a processor call that timed out.
func IsTimeout(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == ErrorCodeTimeout
}

// IsNotFound reports whether the processor answered 404 for the requested entity.
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == ErrorCodeNotFound
}

func transportError(op string, err error) *ProviderError {
	code := ErrorCodeUnavailable
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		code = ErrorCodeTimeout
	}
	return &ProviderError{Op: op, Code: code, Err: err}
}
