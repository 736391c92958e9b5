// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDotenv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    map[string]string
		wantErr string
	}{
		{
			name:    "unquoted values",
			content: "FOO=bar\nBAZ=qux",
			want:    map[string]string{"FOO": "bar", "BAZ": "qux"},
		},
		{
			name:    "comments and blank lines",
			content: "# comment\n\nFOO=bar\n   # indented comment\n",
			want:    map[string]string{"FOO": "bar"},
		},
		{
			name:    "export prefix ignored",
			content: "export EPICS_CA_MAX_ARRAY_BYTES=8388608",
			want:    map[string]string{"EPICS_CA_MAX_ARRAY_BYTES": "8388608"},
		},
		{
			name:    "double quoted with escapes",
			content: `GREETING="line1\nline2 \"quoted\""`,
			want:    map[string]string{"GREETING": "line1\nline2 \"quoted\""},
		},
		{
			name:    "single quoted is literal",
			content: `RAW='no \n escapes here'`,
			want:    map[string]string{"RAW": `no \n escapes here`},
		},
		{
			name:    "empty value",
			content: "EMPTY=",
			want:    map[string]string{"EMPTY": ""},
		},
		{
			name:    "inline comment on unquoted value",
			content: "FOO=bar # trailing",
			want:    map[string]string{"FOO": "bar"},
		},
		{
			name:    "windows line endings",
			content: "FOO=bar\r\nBAZ=qux\r\n",
			want:    map[string]string{"FOO": "bar", "BAZ": "qux"},
		},
		{
			name:    "missing equals",
			content: "JUSTAWORD",
			wantErr: "missing '='",
		},
		{
			name:    "empty key",
			content: "=value",
			wantErr: "empty variable name",
		},
		{
			name:    "unterminated double quote",
			content: `FOO="unclosed`,
			wantErr: "unterminated double quote",
		},
		{
			name:    "unterminated single quote",
			content: `FOO='unclosed`,
			wantErr: "unterminated single quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := map[string]string{}
			err := ParseDotenv(env, []byte(tt.content), "test.env")

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseDotenv() = nil, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseDotenv() error = %v, want contains %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDotenv() error = %v", err)
			}
			for k, v := range tt.want {
				if env[k] != v {
					t.Errorf("env[%q] = %q, want %q", k, env[k], v)
				}
			}
			if len(env) != len(tt.want) {
				t.Errorf("env has %d keys, want %d: %v", len(env), len(tt.want), env)
			}
		})
	}
}

func TestParseDotenv_LaterValuesOverride(t *testing.T) {
	t.Parallel()

	env := map[string]string{"FOO": "old"}
	if err := ParseDotenv(env, []byte("FOO=new"), "test.env"); err != nil {
		t.Fatal(err)
	}
	if env["FOO"] != "new" {
		t.Errorf("FOO = %q, want new", env["FOO"])
	}
}

func TestLoadDotenv(t *testing.T) {
	t.Parallel()

	t.Run("relative path resolves against base", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		if err := os.WriteFile(filepath.Join(base, "extra.env"), []byte("FOO=bar"), 0o644); err != nil {
			t.Fatal(err)
		}

		env := map[string]string{}
		if err := LoadDotenv(env, "extra.env", base); err != nil {
			t.Fatalf("LoadDotenv() error = %v", err)
		}
		if env["FOO"] != "bar" {
			t.Errorf("FOO = %q, want bar", env["FOO"])
		}
	})

	t.Run("missing required file is an error", func(t *testing.T) {
		t.Parallel()

		if err := LoadDotenv(map[string]string{}, "missing.env", t.TempDir()); err == nil {
			t.Fatal("expected error for missing required file")
		}
	})

	t.Run("missing optional file is skipped", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{"KEEP": "me"}
		if err := LoadDotenv(env, "missing.env?", t.TempDir()); err != nil {
			t.Fatalf("LoadDotenv() error = %v, want nil for optional file", err)
		}
		if env["KEEP"] != "me" {
			t.Error("optional miss mutated the env map")
		}
	})
}

func TestLoadDotenvFromCwd(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	if err := os.WriteFile(filepath.Join(cwd, "flag.env"), []byte("FLAG=set"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{}
	if err := LoadDotenvFromCwd(env, "flag.env", cwd); err != nil {
		t.Fatalf("LoadDotenvFromCwd() error = %v", err)
	}
	if env["FLAG"] != "set" {
		t.Errorf("FLAG = %q, want set", env["FLAG"])
	}
}
