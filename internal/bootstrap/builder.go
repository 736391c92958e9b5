// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"

	"envlaunch-cli/internal/config"
	"envlaunch-cli/internal/registry"
	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"
)

// Well-known variable names set during bootstrap.
const (
	// EnvVarPythonPath is the module search path handed to the interpreter.
	EnvVarPythonPath = "PYTHONPATH"
	// EnvVarPath is the executable search path.
	EnvVarPath = "PATH"
	// EnvVarCondaPrefix identifies the active environment bundle root.
	EnvVarCondaPrefix = "CONDA_PREFIX"
	// EnvVarCondaDefaultEnv identifies the active environment bundle name.
	EnvVarCondaDefaultEnv = "CONDA_DEFAULT_ENV"
	// EnvVarQtPlatform selects the Qt platform plugin.
	EnvVarQtPlatform = "QT_QPA_PLATFORM"

	// qtPlatformOffscreen renders Qt windows off-screen so sessions survive
	// hosts without a display server.
	qtPlatformOffscreen = "offscreen"

	// devSubdir is the development overlay appended to PYTHONPATH after the
	// base directory itself, so checked-out working copies shadow nothing
	// but are always importable.
	devSubdir = "dev/devpath"
)

type (
	// Builder assembles the environment for the launched interpreter. It
	// applies a 7-level precedence hierarchy (higher number wins):
	//
	//  1. Host environment (filtered by inherit mode, minus always-denied vars)
	//  2. Bootstrap variables (PYTHONPATH, PATH, CONDA_*, QT_QPA_PLATFORM)
	//  3. Variables exported by the sourced dependency script
	//  4. Config env_files (loaded in array order, relative to base dir)
	//  5. Config env_vars (inline static variables)
	//  6. --env-file flag files (loaded in flag order, relative to cwd)
	//  7. --env-var flag values - HIGHEST priority
	Builder struct {
		// Config supplies inherit mode, env files/vars, headless mode, and
		// the missing-source policy.
		Config *config.Config
		// Env is the resolved environment bundle.
		Env *registry.Environment
		// BaseDir is the launch base directory (launcher location or the
		// configured override).
		BaseDir types.FilesystemPath
		// Sourcer runs the dependency script. Nil skips sourcing even when
		// a source script is configured.
		Sourcer Sourcer
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		// Headless forces off-screen Qt rendering regardless of Config.
		Headless bool
		// FlagEnvFiles contains dotenv paths from the --env-file flag.
		FlagEnvFiles []string
		// FlagEnvVars contains values from the --env-var flag.
		FlagEnvVars map[string]string
		// Cwd resolves relative --env-file paths. Empty uses os.Getwd().
		Cwd string
	}

	// BuildResult reports the built environment plus bookkeeping the CLI
	// surfaces in verbose and dry-run output.
	BuildResult struct {
		// Env is the final environment map.
		Env map[string]string
		// SourcedScript is the dependency script that ran, empty when
		// sourcing was skipped.
		SourcedScript string
		// SourceSkipped is true when a configured script was missing and
		// the continue policy elected to proceed without it.
		SourceSkipped bool
	}
)

// PythonPath returns the interpreter module search path for a base
// directory: the base itself followed by its development overlay, so
// modules in the overlay are importable alongside the deployed ones.
func PythonPath(baseDir types.FilesystemPath) string {
	return string(baseDir) + string(os.PathListSeparator) + string(fspath.JoinStr(baseDir, devSubdir))
}

// Build assembles the final environment. The dependency script, when
// configured, runs against levels 1-2 so its PATH manipulations see the
// environment bundle's bin directory.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	env := hostEnv(b.Config.EnvInherit, b.Environ)

	b.applyBootstrapVars(env)

	result := &BuildResult{}

	if b.Config.SourceScript != "" && b.Sourcer != nil {
		sourced, err := b.Sourcer.Source(ctx, b.resolveAgainstBase(b.Config.SourceScript), env)
		switch {
		case err == nil:
			env = sourced
			result.SourcedScript = b.Config.SourceScript
		case isMissingSource(err) && b.Config.OnMissingSource == config.MissingSourceContinue:
			result.SourceSkipped = true
		default:
			return nil, err
		}
	}

	for _, path := range b.Config.EnvFiles {
		if err := LoadDotenv(env, path, string(b.BaseDir)); err != nil {
			return nil, err
		}
	}

	maps.Copy(env, b.Config.EnvVars)

	for _, path := range b.FlagEnvFiles {
		if err := LoadDotenvFromCwd(env, path, b.Cwd); err != nil {
			return nil, err
		}
	}

	maps.Copy(env, b.FlagEnvVars)

	// Config and flag levels could have reintroduced a denied variable.
	for name := range alwaysDeniedVars {
		delete(env, name)
	}

	result.Env = env
	return result, nil
}

// applyBootstrapVars sets the level-2 variables derived from the base
// directory and the resolved environment bundle.
func (b *Builder) applyBootstrapVars(env map[string]string) {
	env[EnvVarPythonPath] = PythonPath(b.BaseDir)

	binDir := string(b.Env.BinDir())
	if existing, ok := env[EnvVarPath]; ok && existing != "" {
		env[EnvVarPath] = binDir + string(os.PathListSeparator) + existing
	} else {
		env[EnvVarPath] = binDir
	}

	env[EnvVarCondaPrefix] = string(b.Env.Root)
	env[EnvVarCondaDefaultEnv] = b.Env.Name.String()

	if b.Headless || b.Config.Headless {
		env[EnvVarQtPlatform] = qtPlatformOffscreen
	}
}

// resolveAgainstBase resolves a possibly-relative script path against the
// base directory.
func (b *Builder) resolveAgainstBase(path string) string {
	p := types.FilesystemPath(path)
	if fspath.IsAbs(p) {
		return path
	}
	return string(fspath.JoinStr(b.BaseDir, path))
}

// isMissingSource reports whether err is a missing dependency script, as
// opposed to a script that exists but failed.
func isMissingSource(err error) bool {
	return errors.Is(err, ErrSourceScriptMissing)
}

// Validate checks the builder has everything Build needs.
func (b *Builder) Validate() error {
	if b.Config == nil {
		return fmt.Errorf("bootstrap: config must not be nil")
	}
	if b.Env == nil {
		return fmt.Errorf("bootstrap: environment bundle must not be nil")
	}
	if b.BaseDir == "" {
		return fmt.Errorf("bootstrap: base directory must not be empty")
	}
	return nil
}
