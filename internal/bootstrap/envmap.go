// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"os"
	"strings"

	"envlaunch-cli/internal/config"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// alwaysDeniedVars lists host variables that must never leak into the
// launched process regardless of the configured inherit mode or denylist.
// LD_LIBRARY_PATH from the host shadows the environment bundle's own
// libraries and produces loader mismatches that are very hard to diagnose.
var alwaysDeniedVars = map[string]struct{}{
	"LD_LIBRARY_PATH": {},
}

// hostEnv builds the starting environment map from the host process
// environment, filtered by the configured inherit mode. The always-denied
// variables are dropped under every mode.
func hostEnv(cfg config.EnvInheritConfig, environ func() []string) map[string]string {
	env := make(map[string]string)
	if cfg.Mode == config.EnvInheritNone {
		return env
	}

	allowSet := make(map[string]struct{})
	if cfg.Mode == config.EnvInheritAllow {
		for _, name := range cfg.Allow {
			allowSet[name] = struct{}{}
		}
	}

	denySet := make(map[string]struct{}, len(cfg.Deny))
	for _, name := range cfg.Deny {
		denySet[name] = struct{}{}
	}

	if environ == nil {
		environ = os.Environ
	}

	for _, entry := range environ() {
		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			continue
		}

		if _, denied := alwaysDeniedVars[name]; denied {
			continue
		}
		if cfg.Mode == config.EnvInheritAllow {
			if _, ok := allowSet[name]; !ok {
				continue
			}
		}
		if _, denied := denySet[name]; denied {
			continue
		}

		env[name] = value
	}

	return env
}

// ToSlice converts an environment map to sorted "KEY=VALUE" entries suitable
// for exec.Cmd.Env and interp.Env. Sorting keeps the rendered environment
// stable for dry runs and tests.
func ToSlice(env map[string]string) []string {
	keys := maps.Keys(env)
	slices.Sort(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+env[k])
	}
	return entries
}
