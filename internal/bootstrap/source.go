// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrSourceScriptMissing is the sentinel error wrapped by SourceScriptMissingError.
	ErrSourceScriptMissing = errors.New("dependency script not found")
	// ErrSourceScriptFailed is the sentinel error wrapped by SourceScriptFailedError.
	ErrSourceScriptFailed = errors.New("dependency script failed")
)

type (
	// Sourcer runs an environment-setup shell fragment against a base
	// environment and returns the environment with the fragment's exported
	// variables merged in.
	Sourcer interface {
		Source(ctx context.Context, path string, env map[string]string) (map[string]string, error)
	}

	// ShellSourcer sources dependency scripts with an in-process POSIX
	// shell interpreter instead of spawning a subshell. The script runs
	// against the already-built environment, so its PATH manipulations see
	// the environment bundle's bin directory.
	ShellSourcer struct {
		// Stdout and Stderr receive the script's output. Nil discards.
		Stdout io.Writer
		Stderr io.Writer
		// Dir is the working directory for the script. Empty uses the
		// launcher's working directory.
		Dir string
	}

	// SourceScriptMissingError is returned when the dependency script does
	// not exist. It wraps ErrSourceScriptMissing for errors.Is() compatibility.
	SourceScriptMissingError struct {
		Path string
	}

	// SourceScriptFailedError is returned when the dependency script parses
	// but fails during execution. It wraps ErrSourceScriptFailed for
	// errors.Is() compatibility.
	SourceScriptFailedError struct {
		Path     string
		ExitCode int
		Cause    error
	}
)

// Error implements the error interface.
func (e *SourceScriptMissingError) Error() string {
	return fmt.Sprintf("dependency script not found: %s", e.Path)
}

// Unwrap returns ErrSourceScriptMissing for errors.Is() compatibility.
func (e *SourceScriptMissingError) Unwrap() error { return ErrSourceScriptMissing }

// Error implements the error interface.
func (e *SourceScriptFailedError) Error() string {
	return fmt.Sprintf("dependency script %s failed with exit code %d: %v", e.Path, e.ExitCode, e.Cause)
}

// Unwrap returns ErrSourceScriptFailed for errors.Is() compatibility.
func (e *SourceScriptFailedError) Unwrap() error { return ErrSourceScriptFailed }

// Source parses and runs the shell fragment at path, seeded with env, and
// returns env merged with every variable the fragment exported. The input
// map is not mutated.
func (s *ShellSourcer) Source(ctx context.Context, path string, env map[string]string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &SourceScriptMissingError{Path: path}
		}
		return nil, fmt.Errorf("failed to read dependency script %s: %w", path, err)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(string(content)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dependency script %s: %w", path, err)
	}

	stdout := s.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := s.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(ToSlice(env)...)),
		interp.StdIO(nil, stdout, stderr),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		exitCode := 1
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			exitCode = int(exitStatus)
		}
		return nil, &SourceScriptFailedError{Path: path, ExitCode: exitCode, Cause: err}
	}

	merged := make(map[string]string, len(env))
	maps.Copy(merged, env)
	for name, v := range runner.Vars {
		if !v.Exported || v.Kind != expand.String {
			continue
		}
		merged[name] = v.Str
	}

	// The fragment could have re-exported an always-denied variable.
	for name := range alwaysDeniedVars {
		delete(merged, name)
	}

	return merged, nil
}
