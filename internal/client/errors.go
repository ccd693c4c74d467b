package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/adbscan/internal/adb"
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Error types for device client operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeUnreachable indicates the device could not be reached over TCP
	ErrTypeUnreachable ErrorType = iota
	// ErrTypeOffline indicates the adb server sees the device but it is offline
	ErrTypeOffline
	// ErrTypeUnauthorized indicates the device has not authorized this host
	ErrTypeUnauthorized
	// ErrTypeExec indicates the underlying adb invocation failed
	ErrTypeExec
	// ErrTypeParse indicates command output could not be parsed
	ErrTypeParse
	// ErrTypeTimeout indicates the operation exceeded its deadline
	ErrTypeTimeout
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnreachable:
		return "Device Unreachable"
	case ErrTypeOffline:
		return "Device Offline"
	case ErrTypeUnauthorized:
		return "Device Unauthorized"
	case ErrTypeExec:
		return "Command Failed"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ClientError represents an error that occurred while driving a device
type ClientError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Serial  string    // Device serial (for context)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ClientError) Unwrap() error {
	return e.Err
}

// classifyExecError maps an adb invocation failure onto a client error.
// The adb server reports device-state problems through stderr wording
// rather than distinct exit codes, so the text is inspected.
func classifyExecError(serial string, err error) *ClientError {
	if err == nil {
		return nil
	}

	var timeoutErr *adb.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &ClientError{
			Type:    ErrTypeTimeout,
			Message: "device did not respond in time",
			Serial:  serial,
			Err:     err,
		}
	}

	var execErr *adb.ExecError
	if errors.As(err, &execErr) {
		switch {
		case containsAny(execErr.Stderr, "device offline"):
			return &ClientError{
				Type:    ErrTypeOffline,
				Message: "device is offline, reconnect it",
				Serial:  serial,
				Err:     err,
			}
		case containsAny(execErr.Stderr, "device unauthorized", "user denied"):
			return &ClientError{
				Type:    ErrTypeUnauthorized,
				Message: "device has not authorized this host, accept the prompt on screen",
				Serial:  serial,
				Err:     err,
			}
		case containsAny(execErr.Stderr, "not found", "no devices"):
			return &ClientError{
				Type:    ErrTypeUnreachable,
				Message: "device is not known to the adb server",
				Serial:  serial,
				Err:     err,
			}
		}
	}

	return &ClientError{
		Type:    ErrTypeExec,
		Message: "adb command failed",
		Serial:  serial,
		Err:     err,
	}
}

// NewParseError creates a parsing error
func NewParseError(serial, message string, err error) *ClientError {
	return &ClientError{
		Type:    ErrTypeParse,
		Message: message,
		Serial:  serial,
		Err:     err,
	}
}

// IsUnreachable checks if an error indicates the device cannot be reached
func IsUnreachable(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Type == ErrTypeUnreachable
}

// IsOffline checks if an error indicates the device is offline
func IsOffline(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Type == ErrTypeOffline
}

// IsUnauthorized checks if an error indicates a missing host authorization
func IsUnauthorized(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Type == ErrTypeUnauthorized
}

// IsTimeout checks if an error indicates an expired deadline
func IsTimeout(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Type == ErrTypeTimeout
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var cerr *ClientError
	if !errors.As(err, &cerr) {
		return err.Error()
	}

	switch cerr.Type {
	case ErrTypeUnreachable:
		return "Device unreachable - check network connection"
	case ErrTypeOffline:
		return "Device offline - try `adbscan connect` again"
	case ErrTypeUnauthorized:
		return "Device unauthorized - accept the debugging prompt on screen"
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeParse:
		return "Failed to parse device response"
	default:
		return cerr.Message
	}
}
