package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTempResource, cause, "failed to write")

	if err.Code != ErrCodeTempResource {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTempResource)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDecode, "test"),
			code:     ErrCodeDecode,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDecode, "test"),
			code:     ErrCodeResize,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeExternalTool, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeExternalTool,
			expected: true,
		},
		{
			name:     "joined error",
			err:      errors.Join(New(ErrCodeExternalTool, "render"), errors.New("cleanup")),
			code:     ErrCodeExternalTool,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeResize, "test"),
			expected: ErrCodeResize,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
		{
			name:     "external tool diagnostics",
			err:      Wrap(ErrCodeExternalTool, &ExternalToolError{Tool: "rsvg-convert", ExitCode: 1, Output: "Error reading SVG"}, "rasterize"),
			expected: "rasterize: rsvg-convert failed with exit status 1: Error reading SVG",
		},
		{
			name:     "wrapped twice",
			err:      fmt.Errorf("render label: %w", New(ErrCodeTimeout, "rasterizer deadline exceeded")),
			expected: "rasterizer deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExternalToolError(t *testing.T) {
	t.Run("with output", func(t *testing.T) {
		err := &ExternalToolError{Tool: "rsvg-convert", ExitCode: 1, Output: "bad svg"}
		expected := "rsvg-convert failed with exit status 1: bad svg"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without output", func(t *testing.T) {
		err := &ExternalToolError{Tool: "rsvg-convert", ExitCode: 2}
		expected := "rsvg-convert failed with exit status 2"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("found through wrap", func(t *testing.T) {
		err := Wrap(ErrCodeExternalTool, &ExternalToolError{Tool: "rsvg-convert", ExitCode: 1}, "render")
		var tool *ExternalToolError
		if !errors.As(err, &tool) {
			t.Fatal("errors.As should find ExternalToolError")
		}
		if tool.ExitCode != 1 {
			t.Errorf("ExitCode = %d, want 1", tool.ExitCode)
		}
	})
}
