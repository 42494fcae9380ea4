// Package errors provides structured error types for the svgraster pipeline.
//
// Every fatal stage failure surfaces as an *Error carrying a machine-readable
// [Code], so callers can tell a failed rsvg-convert run apart from an
// undecodable raster or a temp file that could not be written:
//
//	bmp, err := runner.Render(ctx, req)
//	if errors.Is(err, errors.ErrCodeExternalTool) {
//	    var tool *errors.ExternalToolError
//	    if stderrors.As(err, &tool) {
//	        log.Print(tool.Output)
//	    }
//	}
//
// # Error Codes
//
//   - INVALID_INPUT: request validation failures
//   - PROBE_INCONCLUSIVE: the capability probe could not decide (never fatal)
//   - EXTERNAL_TOOL_FAILURE: non-zero exit or missing output from the rasterizer
//   - DECODE_FAILURE: bytes could not be parsed as SVG or as a raster
//   - RESIZE_FAILURE: resampling to the target dimensions failed
//   - TEMP_RESOURCE_FAILURE: a temporary file could not be created or written
//   - IO_FAILURE: the output encoder could not write its file
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the rasterization pipeline.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Backend errors
	ErrCodeProbeInconclusive Code = "PROBE_INCONCLUSIVE"
	ErrCodeExternalTool      Code = "EXTERNAL_TOOL_FAILURE"
	ErrCodeDecode            Code = "DECODE_FAILURE"
	ErrCodeResize            Code = "RESIZE_FAILURE"
	ErrCodeTempResource      Code = "TEMP_RESOURCE_FAILURE"

	// Output errors
	ErrCodeIO Code = "IO_FAILURE"

	// Internal errors
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the rasterizer's diagnostics when the chain holds an *ExternalToolError.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var tool *ExternalToolError
	if errors.As(err, &tool) {
		return e.Message + ": " + tool.Error()
	}
	return e.Message
}

// ExternalToolError carries the diagnostics of a failed external rasterizer run.
type ExternalToolError struct {
	Tool     string // Executable name or path
	ExitCode int    // Process exit status; -1 if the process never ran to completion
	Output   string // Combined stdout and stderr
}

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed with exit status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s failed with exit status %d: %s", e.Tool, e.ExitCode, e.Output)
}
