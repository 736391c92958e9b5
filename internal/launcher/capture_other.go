// SPDX-License-Identifier: MPL-2.0

//go:build windows

package launcher

import (
	"context"
	"fmt"

	"envlaunch-cli/pkg/types"
)

// LaunchCaptured is not supported on Windows: session capture requires a
// pseudo-terminal.
func (l *Launcher) LaunchCaptured(_ context.Context, _ *Plan, _ string) (types.ExitCode, error) {
	return 1, fmt.Errorf("session capture is not supported on this platform")
}
