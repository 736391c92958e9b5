// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// MissingSourceAbort stops the launch pipeline when the dependency
	// script is absent. This matches the behavior of the original launcher
	// scripts under default shell error handling.
	MissingSourceAbort MissingSourcePolicy = "abort"
	// MissingSourceContinue skips a missing dependency script and proceeds
	// to the launch step with the environment built so far.
	MissingSourceContinue MissingSourcePolicy = "continue"

	// EnvInheritAll passes the full host environment through (minus the
	// always-denied variables such as LD_LIBRARY_PATH).
	EnvInheritAll EnvInheritMode = "all"
	// EnvInheritAllow passes only explicitly allowlisted host variables.
	EnvInheritAllow EnvInheritMode = "allow"
	// EnvInheritNone starts from an empty environment.
	EnvInheritNone EnvInheritMode = "none"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidMissingSourcePolicy is returned when a MissingSourcePolicy value is not recognized.
	ErrInvalidMissingSourcePolicy = errors.New("invalid missing-source policy")
	// ErrInvalidEnvInheritMode is returned when an EnvInheritMode value is not recognized.
	ErrInvalidEnvInheritMode = errors.New("invalid env inherit mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// MissingSourcePolicy decides what happens when the dependency script
	// named by source_script does not exist. The original launcher scripts
	// left this to the shell's error-continuation setting; here it is an
	// explicit policy.
	MissingSourcePolicy string

	// InvalidMissingSourcePolicyError is returned when a MissingSourcePolicy
	// value is not recognized. It wraps ErrInvalidMissingSourcePolicy for
	// errors.Is() compatibility.
	InvalidMissingSourcePolicyError struct {
		Value MissingSourcePolicy
	}

	// EnvInheritMode specifies how much of the host environment the built
	// ProcessEnvironment starts from.
	EnvInheritMode string

	// InvalidEnvInheritModeError is returned when an EnvInheritMode value is
	// not recognized. It wraps ErrInvalidEnvInheritMode for errors.Is() compatibility.
	InvalidEnvInheritModeError struct {
		Value EnvInheritMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// EnvInheritConfig controls host environment inheritance.
	EnvInheritConfig struct {
		// Mode selects the inheritance strategy ("all", "allow", "none").
		Mode EnvInheritMode `mapstructure:"mode"`
		// Allow lists host variables passed through under the "allow" mode.
		Allow []string `mapstructure:"allow"`
		// Deny lists host variables always dropped, regardless of mode.
		// LD_LIBRARY_PATH is denied unconditionally and need not be listed.
		Deny []string `mapstructure:"deny"`
	}

	// CaptureConfig controls session capture (teeing the interactive
	// interpreter session to a log file through a pty).
	CaptureConfig struct {
		// Enabled turns session capture on.
		Enabled bool `mapstructure:"enabled"`
		// LogDir is the directory for session logs. Empty means "logs"
		// under the resolved base directory.
		LogDir string `mapstructure:"log_dir"`
	}

	// UIConfig holds user interface preferences.
	UIConfig struct {
		// ColorScheme selects terminal colors ("auto", "dark", "light").
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		// Verbose enables verbose diagnostic output.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the application configuration.
	Config struct {
		// EnvName names the runtime environment to activate. Replaces the
		// hard-coded constant of the original launcher scripts.
		EnvName string `mapstructure:"env_name"`
		// EnvsDir is the directory holding environment bundles, used when
		// the manifest does not declare the named environment.
		EnvsDir string `mapstructure:"envs_dir"`
		// ManifestPath points at an envs.toml manifest. Empty means
		// <config dir>/envs.toml.
		ManifestPath string `mapstructure:"manifest_path"`
		// BaseDir overrides the base directory normally derived from the
		// launcher's own resolved location.
		BaseDir string `mapstructure:"base_dir"`
		// EntryScript is the Python file handed to the interpreter for
		// immediate execution in interactive mode. Relative paths resolve
		// against the base directory.
		EntryScript string `mapstructure:"entry_script"`
		// Interpreter is the interpreter binary name or absolute path.
		Interpreter string `mapstructure:"interpreter"`
		// InterpreterArgs are passed to the interpreter before the entry
		// script (e.g. "-i" to stay interactive after the script runs).
		InterpreterArgs []string `mapstructure:"interpreter_args"`
		// SourceScript is the secondary environment-setup shell fragment
		// sourced before launch. Empty disables sourcing.
		SourceScript string `mapstructure:"source_script"`
		// OnMissingSource selects the policy for a missing SourceScript.
		OnMissingSource MissingSourcePolicy `mapstructure:"on_missing_source"`
		// Headless forces off-screen rendering (QT_QPA_PLATFORM=offscreen)
		// so sessions survive hosts without a display.
		Headless bool `mapstructure:"headless"`
		// EnvFiles lists dotenv files merged into the environment, in
		// order. A trailing '?' marks a file optional.
		EnvFiles []string `mapstructure:"env_files"`
		// EnvVars are inline static variables, applied after EnvFiles.
		EnvVars map[string]string `mapstructure:"env_vars"`
		// EnvInherit controls host environment inheritance.
		EnvInherit EnvInheritConfig `mapstructure:"env_inherit"`
		// Capture controls session capture.
		Capture CaptureConfig `mapstructure:"capture"`
		// UI holds user interface preferences.
		UI UIConfig `mapstructure:"ui"`
	}

	// InvalidConfigError is returned when a Config fails validation. It
	// wraps ErrInvalidConfig and collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// IsValid returns whether the MissingSourcePolicy is a recognized value.
func (p MissingSourcePolicy) IsValid() (bool, []error) {
	switch p {
	case MissingSourceAbort, MissingSourceContinue:
		return true, nil
	}
	return false, []error{&InvalidMissingSourcePolicyError{Value: p}}
}

// Error implements the error interface.
func (e *InvalidMissingSourcePolicyError) Error() string {
	return fmt.Sprintf("invalid missing-source policy %q (must be %q or %q)",
		e.Value, MissingSourceAbort, MissingSourceContinue)
}

// Unwrap returns ErrInvalidMissingSourcePolicy for errors.Is() compatibility.
func (e *InvalidMissingSourcePolicyError) Unwrap() error { return ErrInvalidMissingSourcePolicy }

// IsValid returns whether the EnvInheritMode is a recognized value.
func (m EnvInheritMode) IsValid() (bool, []error) {
	switch m {
	case EnvInheritAll, EnvInheritAllow, EnvInheritNone:
		return true, nil
	}
	return false, []error{&InvalidEnvInheritModeError{Value: m}}
}

// Error implements the error interface.
func (e *InvalidEnvInheritModeError) Error() string {
	return fmt.Sprintf("invalid env inherit mode %q (must be %q, %q or %q)",
		e.Value, EnvInheritAll, EnvInheritAllow, EnvInheritNone)
}

// Unwrap returns ErrInvalidEnvInheritMode for errors.Is() compatibility.
func (e *InvalidEnvInheritModeError) Unwrap() error { return ErrInvalidEnvInheritMode }

// IsValid returns whether the ColorScheme is a recognized value.
func (s ColorScheme) IsValid() (bool, []error) {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	}
	return false, []error{&InvalidColorSchemeError{Value: s}}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be %q, %q or %q)",
		e.Value, ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks enum-valued fields that CUE cannot fully constrain once
// values pass through Viper (flag and env overrides bypass the schema).
func (c *Config) Validate() error {
	var fieldErrs []error

	if _, errs := c.OnMissingSource.IsValid(); len(errs) > 0 {
		fieldErrs = append(fieldErrs, errs...)
	}
	if _, errs := c.EnvInherit.Mode.IsValid(); len(errs) > 0 {
		fieldErrs = append(fieldErrs, errs...)
	}
	if _, errs := c.UI.ColorScheme.IsValid(); len(errs) > 0 {
		fieldErrs = append(fieldErrs, errs...)
	}

	if len(fieldErrs) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// DefaultConfig returns the built-in defaults: IPython kept interactive
// after the entry script, abort on a missing dependency script, full host
// inheritance, capture off.
func DefaultConfig() *Config {
	return &Config{
		Interpreter:     "ipython",
		InterpreterArgs: []string{"-i"},
		OnMissingSource: MissingSourceAbort,
		EnvInherit:      EnvInheritConfig{Mode: EnvInheritAll},
		Capture:         CaptureConfig{Enabled: false},
		UI:              UIConfig{ColorScheme: ColorSchemeAuto},
	}
}
