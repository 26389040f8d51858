// SPDX-License-Identifier: MPL-2.0

// Package argerr defines the error taxonomy shared by every stage of the
// model-to-CLI pipeline.
//
// The taxonomy separates developer mistakes from end-user mistakes:
//
//   - ConfigurationError: the argument model itself is malformed. Raised at
//     parser construction time and never suppressed.
//   - TokenizationError: the raw command line could not be split against the
//     registered flags (unknown flag, missing required flag, bad arity).
//   - ValidationError: the command line was syntactically fine, but one or
//     more field values failed type coercion or constraint checks.
//   - DecodeError: an internal-consistency failure while reshaping the raw
//     namespace. Indicates a defect, not bad input, and is never wrapped.
//   - ArgumentError: the uniform wrapper handed to callers that disabled
//     exit-on-error; it wraps the tokenization or validation cause.
package argerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrConfiguration = errors.New("invalid argument model configuration")
	// ErrTokenization is the sentinel error wrapped by TokenizationError.
	ErrTokenization = errors.New("argument tokenization failed")
	// ErrValidation is the sentinel error wrapped by ValidationError.
	ErrValidation = errors.New("argument validation failed")
	// ErrDecode is the sentinel error wrapped by DecodeError.
	ErrDecode = errors.New("internal decode invariant violated")
	// ErrArgument is the sentinel error wrapped by ArgumentError.
	ErrArgument = errors.New("argument parsing failed")
)

type (
	// ConfigurationError is returned when an argument model cannot be
	// compiled into a parser: an unclassifiable field type, a duplicate
	// flag, a malformed alias or short, or an uncoercible default value.
	// It wraps ErrConfiguration for errors.Is() compatibility.
	ConfigurationError struct {
		// Model is the Go type name of the offending model.
		Model string
		// Field is the model field that triggered the error, if any.
		Field string
		// Reason describes what is wrong with the model.
		Reason string
		// Err is an optional underlying cause.
		Err error
	}

	// TokenizationError is returned when the underlying tokenizer rejects
	// the raw command line. It wraps ErrTokenization for errors.Is().
	TokenizationError struct {
		// Reason is the user-facing description of the failure.
		Reason string
		// Err is an optional underlying tokenizer error.
		Err error
	}

	// FieldError is a single per-field validation failure.
	FieldError struct {
		// Field is the model field (or flag identifier) that failed.
		Field string
		// Message describes the violation.
		Message string
	}

	// ValidationError aggregates per-field failures reported by the
	// validation engine on otherwise well-formed input. It wraps
	// ErrValidation for errors.Is() compatibility.
	ValidationError struct {
		// Fields holds one entry per violation, in field order.
		Fields []FieldError
	}

	// DecodeError signals an internal-consistency failure in the decoder.
	// Given a correctly assembled parser definition it is unreachable, so
	// it is treated as a defect: it propagates unmodified and must never
	// be folded into a user-facing message. It wraps ErrDecode.
	DecodeError struct {
		// Reason describes the violated invariant.
		Reason string
	}

	// ArgumentError is the uniform error returned by parsers constructed
	// with exit-on-error disabled. It wraps the original tokenization or
	// validation cause, and ErrArgument for errors.Is() compatibility.
	ArgumentError struct {
		// Prog is the program name the parser was constructed with.
		Prog string
		// Err is the underlying cause.
		Err error
	}
)

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("model ")
	b.WriteString(e.Model)
	if e.Field != "" {
		b.WriteString(", field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Error implements the error interface for TokenizationError.
func (e *TokenizationError) Error() string {
	if e.Err != nil && e.Reason == "" {
		return e.Err.Error()
	}
	return e.Reason
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *TokenizationError) Unwrap() error {
	return ErrTokenization
}

// Error implements the error interface for FieldError.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error implements the error interface for ValidationError. Violations are
// rendered one per line so the reporter can surface all of them at once.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Fields)+1)
	lines = append(lines, fmt.Sprintf("%d validation error(s)", len(e.Fields)))
	for _, f := range e.Fields {
		lines = append(lines, "  "+f.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return "decode invariant violated: " + e.Reason
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Error implements the error interface for ArgumentError.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: error: %v", e.Prog, e.Err)
}

// Unwrap returns the underlying cause so callers can reach the original
// TokenizationError or ValidationError via errors.As().
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrArgument sentinel. The cause chain is
// still reachable through Unwrap.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}
