package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "Parsing error: invalid JSON syntax",
		},
		{
			name:     "conversion error",
			err:      NewConversionError("object member at /a has no key", ErrMissingKey),
			expected: "Conversion error: object member at /a has no key",
		},
		{
			name:     "edit error",
			err:      NewEditError("cannot rename the root", nil),
			expected: "Edit error: cannot rename the root",
		},
		{
			name:     "config error",
			err:      NewConfigError("unknown key case", nil),
			expected: "Configuration error: unknown key case",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide valid JSON data.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - malformed tree",
			err:      ErrMalformedTree,
			expected: "Error: The document tree is malformed and cannot be converted back to JSON.",
		},
		{
			name:     "standard error - invalid YAML",
			err:      ErrInvalidYAML,
			expected: "Error: The input contains invalid YAML. Please check your YAML syntax.",
		},
		{
			name:     "duplicate key",
			err:      fmt.Errorf("rename /b: %w", ErrDuplicateKey),
			expected: "Error: An object cannot hold two members with the same key.",
		},
		{
			name:     "root removal",
			err:      ErrRootRemoval,
			expected: "Error: The root node cannot be removed. Replace it instead.",
		},
		{
			name:     "foreign node",
			err:      fmt.Errorf("set: %w", ErrForeignNode),
			expected: "Error: The node belongs to a different document.",
		},
		{
			name:     "node not found",
			err:      ErrNodeNotFound,
			expected: "Error: No node exists at the given JSON pointer.",
		},
		{
			name:     "malformed tree over missing key",
			err:      fmt.Errorf("%w: %w", ErrMalformedTree, ErrMissingKey),
			expected: "Error: The document tree is malformed and cannot be converted back to JSON.",
		},
		{
			name:     "edit error wrapping sentinel keeps its message",
			err:      NewEditError(`key "a" already exists in ""`, ErrDuplicateKey),
			expected: `Edit error: key "a" already exists in ""`,
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_WrapsSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		category ErrorType
	}{
		{"missing key", NewConversionError(`node "/a"`, fmt.Errorf("%w: %w", ErrMalformedTree, ErrMissingKey)), ErrMissingKey, ErrorTypeConversion},
		{"shared payload", NewConversionError(`node "/0"`, fmt.Errorf("%w: %w", ErrMalformedTree, ErrSharedPayload)), ErrSharedPayload, ErrorTypeConversion},
		{"duplicate key", NewEditError("rename", ErrDuplicateKey), ErrDuplicateKey, ErrorTypeEdit},
		{"foreign node", NewEditError("node is not part of this document", ErrForeignNode), ErrForeignNode, ErrorTypeEdit},
		{"root removal", NewEditError("remove", ErrRootRemoval), ErrRootRemoval, ErrorTypeEdit},
		{"bad pointer", NewInputError("pointer", ErrInvalidPointer), ErrInvalidPointer, ErrorTypeInput},
		{"bad yaml", NewParsingError("line 1: recursive alias *x", ErrInvalidYAML), ErrInvalidYAML, ErrorTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.True(t, errors.Is(tt.err, &AppError{Type: tt.category}))
			assert.False(t, errors.Is(tt.err, &AppError{Type: ErrorTypeOutput}))
		})
	}

	conv := NewConversionError("x", fmt.Errorf("%w: %w", ErrMalformedTree, ErrMissingKey))
	assert.True(t, errors.Is(conv, ErrMalformedTree))
}
