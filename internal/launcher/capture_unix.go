// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"envlaunch-cli/internal/bootstrap"
	"envlaunch-cli/pkg/types"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// LaunchCaptured spawns the interpreter behind a pseudo-terminal and tees
// everything the session writes to the log file at logPath, while keeping
// the session fully interactive. Like Launch, the context gates the spawn
// only; a running session is interrupted through the pty's own line
// discipline, never through context cancellation. The exit code propagates
// like Launch.
func (l *Launcher) LaunchCaptured(ctx context.Context, plan *Plan, logPath string) (types.ExitCode, error) {
	if err := plan.Validate(); err != nil {
		return 1, err
	}

	binary, err := plan.ResolveInterpreter()
	if err != nil {
		return 1, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 1, fmt.Errorf("%w: creating log directory: %v", ErrSessionLogFailed, err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 1, fmt.Errorf("%w: opening %s: %v", ErrSessionLogFailed, logPath, err)
	}
	defer logFile.Close()

	if err := ctx.Err(); err != nil {
		return 1, fmt.Errorf("launch canceled: %w", err)
	}

	cmd := exec.Command(binary, plan.Args...)
	cmd.Env = bootstrap.ToSlice(plan.Env)
	if plan.WorkDir != "" {
		cmd.Dir = plan.WorkDir
	}

	restore := ignoreInterrupts()
	defer restore()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 1, fmt.Errorf("failed to start interpreter session with pty: %w", err)
	}
	defer ptmx.Close()

	// When stdin is a real terminal, mirror its size into the pty and put
	// it into raw mode so keystrokes (including Ctrl-C) pass straight
	// through to the session instead of being echoed and line-buffered
	// twice. The pty's line discipline then generates the signals.
	if f, ok := l.stdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_ = pty.InheritSize(f, ptmx)
		if oldState, rawErr := term.MakeRaw(int(f.Fd())); rawErr == nil {
			defer func() { _ = term.Restore(int(f.Fd()), oldState) }()
		}
	}

	// Feed stdin into the pty; the goroutine exits when the pty closes.
	go func() {
		_, _ = io.Copy(ptmx, l.stdin())
	}()

	// Everything the session writes goes to the user and the log.
	_, copyErr := io.Copy(io.MultiWriter(l.stdout(), logFile), ptmx)

	err = cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return sessionExitCode(exitErr), nil
		}
		return 1, fmt.Errorf("interpreter session failed: %w", err)
	}

	// A pty read error after a clean exit is expected (EIO on Linux when
	// the child side closes); anything while the child was alive is not,
	// but by this point the session is over either way.
	_ = copyErr

	return 0, nil
}
