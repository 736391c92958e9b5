// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"envlaunch-cli/internal/bootstrap"
	"envlaunch-cli/pkg/types"
)

var (
	// ErrInterpreterNotFound is the sentinel error wrapped by InterpreterNotFoundError.
	ErrInterpreterNotFound = errors.New("interpreter not found")
	// ErrEntryScriptMissing is the sentinel error wrapped by EntryScriptMissingError.
	ErrEntryScriptMissing = errors.New("entry script not found")
	// ErrSessionLogFailed is returned when a capture session's log file
	// cannot be created or opened.
	ErrSessionLogFailed = errors.New("session log failed")
)

type (
	// Plan is everything needed to start the interpreter session. The
	// environment is final: the launcher adds nothing and removes nothing.
	Plan struct {
		// Interpreter is the interpreter binary name or absolute path.
		// Bare names resolve against the plan environment's PATH, not the
		// launcher's own.
		Interpreter string
		// Args are passed to the interpreter verbatim, entry script last.
		Args []string
		// EntryScript is the script handed to the interpreter, recorded
		// separately from Args for validation and display. Empty means an
		// interpreter-only session.
		EntryScript string
		// Env is the bootstrap-built environment map.
		Env map[string]string
		// WorkDir is the working directory for the session. Empty uses the
		// launcher's working directory.
		WorkDir string
	}

	// Launcher spawns interpreter sessions and waits for them.
	Launcher struct {
		// Stdin, Stdout and Stderr attach to the session. Nil values fall
		// back to the launcher process's own streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// InterpreterNotFoundError is returned when the interpreter binary
	// cannot be resolved against the plan environment's PATH. It wraps
	// ErrInterpreterNotFound for errors.Is() compatibility.
	InterpreterNotFoundError struct {
		Interpreter string
		Path        string
	}

	// EntryScriptMissingError is returned when the configured entry script
	// does not exist. It wraps ErrEntryScriptMissing for errors.Is()
	// compatibility.
	EntryScriptMissingError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *InterpreterNotFoundError) Error() string {
	return fmt.Sprintf("interpreter %q not found in session PATH %q", e.Interpreter, e.Path)
}

// Unwrap returns ErrInterpreterNotFound for errors.Is() compatibility.
func (e *InterpreterNotFoundError) Unwrap() error { return ErrInterpreterNotFound }

// Error implements the error interface.
func (e *EntryScriptMissingError) Error() string {
	return fmt.Sprintf("entry script not found: %s", e.Path)
}

// Unwrap returns ErrEntryScriptMissing for errors.Is() compatibility.
func (e *EntryScriptMissingError) Unwrap() error { return ErrEntryScriptMissing }

// CommandLine returns the resolved command line for display purposes.
func (p *Plan) CommandLine() string {
	parts := append([]string{p.Interpreter}, p.Args...)
	return strings.Join(parts, " ")
}

// Validate checks the plan before spawning: a non-empty interpreter and,
// when an entry script is set, an existing file.
func (p *Plan) Validate() error {
	if p.Interpreter == "" {
		return fmt.Errorf("launch plan has no interpreter")
	}
	if p.EntryScript != "" {
		info, err := os.Stat(p.EntryScript)
		if err != nil || info.IsDir() {
			return &EntryScriptMissingError{Path: p.EntryScript}
		}
	}
	return nil
}

// ResolveInterpreter locates the interpreter binary. Names containing a
// path separator are used as-is; bare names search the plan environment's
// PATH. The launcher's own PATH is deliberately not consulted, because the
// session PATH is what the interpreter will run under.
func (p *Plan) ResolveInterpreter() (string, error) {
	if strings.ContainsRune(p.Interpreter, os.PathSeparator) {
		if isExecutableFile(p.Interpreter) {
			return p.Interpreter, nil
		}
		return "", &InterpreterNotFoundError{Interpreter: p.Interpreter}
	}

	pathVar := p.Env[bootstrap.EnvVarPath]
	for _, dir := range filepath.SplitList(pathVar) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, p.Interpreter)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}

	return "", &InterpreterNotFoundError{Interpreter: p.Interpreter, Path: pathVar}
}

// Launch spawns the interpreter and waits for it to finish, propagating its
// exit code. The context gates the spawn only: once the session is running,
// interruption is left to the operating system's signal delivery, so Ctrl-C
// reaches the interpreter through the foreground process group and the
// interpreter decides how to handle it, exactly as it would without the
// launcher in between. The returned error is reserved for spawn failures; a
// non-zero exit from the interpreter itself is reported through the exit
// code alone.
func (l *Launcher) Launch(ctx context.Context, plan *Plan) (types.ExitCode, error) {
	if err := plan.Validate(); err != nil {
		return 1, err
	}

	binary, err := plan.ResolveInterpreter()
	if err != nil {
		return 1, err
	}

	if err := ctx.Err(); err != nil {
		return 1, fmt.Errorf("launch canceled: %w", err)
	}

	cmd := exec.Command(binary, plan.Args...)
	cmd.Env = bootstrap.ToSlice(plan.Env)
	if plan.WorkDir != "" {
		cmd.Dir = plan.WorkDir
	}

	cmd.Stdin = l.stdin()
	cmd.Stdout = l.stdout()
	cmd.Stderr = l.stderr()

	restore := ignoreInterrupts()
	defer restore()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return sessionExitCode(exitErr), nil
		}
		return 1, fmt.Errorf("failed to start interpreter session: %w", err)
	}

	return 0, nil
}

// ignoreInterrupts disables the launcher's default SIGINT handling for the
// lifetime of a session. The terminal delivers Ctrl-C to the whole
// foreground process group, so the interpreter still receives the signal
// and acts on it; the launcher just keeps waiting.
func ignoreInterrupts() func() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	return func() { signal.Stop(sigc) }
}

// sessionExitCode maps a finished session's wait status to an exit code.
// A child killed by a signal reports 128 plus the signal number, the shell
// convention types.ExitCode.IsSignaled recognizes.
func sessionExitCode(exitErr *exec.ExitError) types.ExitCode {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return types.ExitCode(128 + int(status.Signal()))
	}
	return types.ExitCode(exitErr.ExitCode())
}

// SessionLogPath returns the log file path for a capture session starting
// at the given time.
func SessionLogPath(logDir string, name types.EnvName, now time.Time) string {
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", name, now.Format("20060102-150405")))
}

func (l *Launcher) stdin() io.Reader {
	if l.Stdin != nil {
		return l.Stdin
	}
	return os.Stdin
}

func (l *Launcher) stdout() io.Writer {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l *Launcher) stderr() io.Writer {
	if l.Stderr != nil {
		return l.Stderr
	}
	return os.Stderr
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
