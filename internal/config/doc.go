// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/envlaunch/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/envlaunch/config.cue on macOS, %APPDATA%\envlaunch\config.cue
// on Windows). The package provides type-safe configuration access for the launch pipeline:
// the runtime environment name, base directory override, dependency-script sourcing policy,
// interpreter selection, environment inheritance rules, and session capture options.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
