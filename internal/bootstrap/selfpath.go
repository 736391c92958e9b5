// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"fmt"
	"os"

	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"
)

// osExecutable is swappable so tests can simulate resolution failures and
// fixed install locations without re-executing the test binary.
var osExecutable = os.Executable

// ResolveSelfPath returns the launcher's own absolute location with all
// symlinks resolved. Launchers are commonly installed behind symlinks
// (e.g. a versioned binary linked from a stable name), and the base
// directory must be derived from the real location, not the link.
func ResolveSelfPath() (types.FilesystemPath, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("failed to locate own executable: %w", err)
	}

	abs, err := fspath.Abs(types.FilesystemPath(exe))
	if err != nil {
		return "", err
	}

	resolved, err := fspath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}

	return resolved, nil
}

// ResolveBaseDir returns the base directory for the launch: the explicit
// override when set, otherwise the directory containing the resolved
// launcher executable.
func ResolveBaseDir(override string) (types.FilesystemPath, error) {
	if override != "" {
		abs, err := fspath.Abs(types.FilesystemPath(override))
		if err != nil {
			return "", err
		}
		info, err := os.Stat(string(abs))
		if err != nil {
			return "", fmt.Errorf("base directory %s is not accessible: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("base directory %s is not a directory", abs)
		}
		return abs, nil
	}

	self, err := ResolveSelfPath()
	if err != nil {
		return "", err
	}
	return fspath.Dir(self), nil
}
