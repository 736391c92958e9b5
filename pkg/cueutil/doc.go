// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// The config loader compiles the embedded schema, unifies it with the user's
// config file, and merges the result into Viper. This package supplies the
// pieces that flow needs: user-facing error formatting with JSON-path
// prefixes, and a file size guard applied before parsing.
package cueutil
