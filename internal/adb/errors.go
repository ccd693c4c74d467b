package adb

import (
	"fmt"
	"strings"
)

// NotFoundError indicates the adb binary could not be located.
type NotFoundError struct {
	// Path is the path that was tried, empty when PATH was searched
	Path string
	// Underlying error
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("adb not found at %s: %v\n"+
			"Hint: check the configured adb path or remove it to search PATH",
			e.Path, e.Err)
	}
	return fmt.Sprintf("adb not found in PATH: %v\n"+
		"Install the Android platform-tools and ensure adb is on your PATH",
		e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ExecError represents a failure while executing the adb binary.
// This covers both process start failures and non-zero exit codes.
type ExecError struct {
	// Args are the arguments adb was invoked with
	Args []string
	// ExitCode is the adb process exit code
	ExitCode int
	// Stderr is the captured stderr output
	Stderr string
	// Underlying error if any
	Err error
}

func (e *ExecError) Error() string {
	cmdline := "adb " + strings.Join(e.Args, " ")
	if e.Err != nil {
		return fmt.Sprintf("%s failed (exit code %d): %v\nstderr: %s",
			cmdline, e.ExitCode, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed (exit code %d)\nstderr: %s",
		cmdline, e.ExitCode, e.Stderr)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an adb invocation exceeding its deadline.
type TimeoutError struct {
	// Args are the arguments adb was invoked with
	Args []string
	// Timeout is the duration that was exceeded
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("adb %s timed out after %s\n"+
		"Hint: increase the timeout or check the device connection",
		strings.Join(e.Args, " "), e.Timeout)
}

// ParseError represents unexpected output from an adb invocation.
type ParseError struct {
	// Field is the value that failed to parse
	Field string
	// Output is the adb output that failed to parse
	Output string
	// Underlying error
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse adb output for %q: %v\nOutput: %s",
		e.Field, e.Err, e.Output)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
