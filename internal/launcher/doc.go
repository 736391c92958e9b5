// SPDX-License-Identifier: MPL-2.0

// Package launcher starts the interpreter session from a fully-built plan:
// it resolves the interpreter binary against the plan's own PATH, spawns it
// with the bootstrap environment, waits for it to finish, and propagates its
// exit code. Capture mode attaches a pseudo-terminal and tees the session to
// a log file.
package launcher
