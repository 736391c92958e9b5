// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnvName is the sentinel error wrapped by InvalidEnvNameError.
var ErrInvalidEnvName = errors.New("invalid environment name")

type (
	// EnvName identifies a named runtime environment (a preconfigured bundle
	// of interpreter binary, libraries, and search paths). A valid name is
	// non-empty, contains no whitespace, and contains no path separators so
	// it can always be joined to an environments directory safely.
	EnvName string

	// InvalidEnvNameError is returned when an EnvName value is empty,
	// contains whitespace, or contains path separators.
	InvalidEnvNameError struct {
		Value EnvName
	}
)

// String returns the string representation of the EnvName.
func (n EnvName) String() string { return string(n) }

// IsValid returns whether the EnvName is valid.
func (n EnvName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" ||
		strings.ContainsAny(s, " \t\n") ||
		strings.ContainsAny(s, `/\`) ||
		s == "." || s == ".." {
		return false, []error{&InvalidEnvNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidEnvNameError.
func (e *InvalidEnvNameError) Error() string {
	return fmt.Sprintf("invalid environment name %q: must be non-empty and free of whitespace and path separators", e.Value)
}

// Unwrap returns ErrInvalidEnvName for errors.Is() compatibility.
func (e *InvalidEnvNameError) Unwrap() error { return ErrInvalidEnvName }
