// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"reflect"
	"testing"

	"envlaunch-cli/internal/config"
)

func TestHostEnv_InheritModes(t *testing.T) {
	t.Parallel()

	environ := func() []string {
		return []string{
			"HOME=/home/ops",
			"TERM=xterm-256color",
			"LD_LIBRARY_PATH=/usr/local/stale/lib",
			"SECRET_TOKEN=hunter2",
		}
	}

	tests := []struct {
		name string
		cfg  config.EnvInheritConfig
		want map[string]string
	}{
		{
			name: "all inherits everything except always-denied",
			cfg:  config.EnvInheritConfig{Mode: config.EnvInheritAll},
			want: map[string]string{
				"HOME":         "/home/ops",
				"TERM":         "xterm-256color",
				"SECRET_TOKEN": "hunter2",
			},
		},
		{
			name: "allow passes only the allowlist",
			cfg: config.EnvInheritConfig{
				Mode:  config.EnvInheritAllow,
				Allow: []string{"HOME", "TERM"},
			},
			want: map[string]string{
				"HOME": "/home/ops",
				"TERM": "xterm-256color",
			},
		},
		{
			name: "allow cannot resurrect always-denied vars",
			cfg: config.EnvInheritConfig{
				Mode:  config.EnvInheritAllow,
				Allow: []string{"LD_LIBRARY_PATH"},
			},
			want: map[string]string{},
		},
		{
			name: "deny drops listed vars under all mode",
			cfg: config.EnvInheritConfig{
				Mode: config.EnvInheritAll,
				Deny: []string{"SECRET_TOKEN"},
			},
			want: map[string]string{
				"HOME": "/home/ops",
				"TERM": "xterm-256color",
			},
		},
		{
			name: "none starts empty",
			cfg:  config.EnvInheritConfig{Mode: config.EnvInheritNone},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hostEnv(tt.cfg, environ)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("hostEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHostEnv_SkipsMalformedEntries(t *testing.T) {
	t.Parallel()

	environ := func() []string {
		return []string{"GOOD=yes", "NOEQUALS", "=novalue"}
	}

	got := hostEnv(config.EnvInheritConfig{Mode: config.EnvInheritAll}, environ)
	want := map[string]string{"GOOD": "yes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("hostEnv() = %v, want %v", got, want)
	}
}

func TestToSlice_SortedAndFormatted(t *testing.T) {
	t.Parallel()

	got := ToSlice(map[string]string{
		"ZEBRA": "last",
		"ALPHA": "first",
		"MID":   "middle",
	})
	want := []string{"ALPHA=first", "MID=middle", "ZEBRA=last"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToSlice() = %v, want %v", got, want)
	}
}
