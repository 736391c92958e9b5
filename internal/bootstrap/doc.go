// SPDX-License-Identifier: MPL-2.0

// Package bootstrap assembles the process environment handed to the launched
// interpreter. It resolves the launcher's own location, derives the base
// directory, applies the environment precedence hierarchy, sources the
// configured dependency shell fragment in-process, and guarantees the
// launched process never inherits LD_LIBRARY_PATH.
package bootstrap
