// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Interpreter != "ipython" {
		t.Errorf("expected default interpreter to be ipython, got %s", cfg.Interpreter)
	}

	if len(cfg.InterpreterArgs) != 1 || cfg.InterpreterArgs[0] != "-i" {
		t.Errorf("expected default interpreter args [-i], got %v", cfg.InterpreterArgs)
	}

	if cfg.OnMissingSource != MissingSourceAbort {
		t.Errorf("expected default missing-source policy to be abort, got %s", cfg.OnMissingSource)
	}

	if cfg.EnvInherit.Mode != EnvInheritAll {
		t.Errorf("expected default env inherit mode to be all, got %s", cfg.EnvInherit.Mode)
	}

	if cfg.Headless {
		t.Error("expected headless to be false by default")
	}

	if cfg.Capture.Enabled {
		t.Error("expected capture to be disabled by default")
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME behavior is Linux-specific")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join("/tmp/test-xdg-config", AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", resolved)
	}
	if cfg.Interpreter != "ipython" {
		t.Errorf("Interpreter = %q, want default ipython", cfg.Interpreter)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	content := `
env_name:      "pcds-5.8.3"
envs_dir:      "/reg/g/pcds/pyps/conda/envs"
entry_script:  "sxr_python.py"
source_script: "/reg/g/pcds/setup/epicsenv.sh"
headless:      true

env_inherit: {
	mode: "allow"
	allow: ["HOME", "USER", "TERM", "DISPLAY"]
}

capture: {
	enabled: true
	log_dir: "/tmp/session-logs"
}
`
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.EnvName != "pcds-5.8.3" {
		t.Errorf("EnvName = %q, want pcds-5.8.3", cfg.EnvName)
	}
	if cfg.EnvsDir != "/reg/g/pcds/pyps/conda/envs" {
		t.Errorf("EnvsDir = %q", cfg.EnvsDir)
	}
	if !cfg.Headless {
		t.Error("Headless = false, want true")
	}
	if cfg.EnvInherit.Mode != EnvInheritAllow {
		t.Errorf("EnvInherit.Mode = %q, want allow", cfg.EnvInherit.Mode)
	}
	if len(cfg.EnvInherit.Allow) != 4 {
		t.Errorf("EnvInherit.Allow = %v, want 4 entries", cfg.EnvInherit.Allow)
	}
	if !cfg.Capture.Enabled || cfg.Capture.LogDir != "/tmp/session-logs" {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	// Unset fields keep defaults
	if cfg.Interpreter != "ipython" {
		t.Errorf("Interpreter = %q, want default ipython", cfg.Interpreter)
	}
	if cfg.OnMissingSource != MissingSourceAbort {
		t.Errorf("OnMissingSource = %q, want default abort", cfg.OnMissingSource)
	}
}

func TestLoad_ExplicitPathMissingFile(t *testing.T) {
	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %v, want 'config file not found'", err)
	}
}

func TestLoad_InvalidEnumRejectedBySchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(`on_missing_source: "ignore"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil {
		t.Fatal("expected schema validation error for bad on_missing_source")
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(`env_name: "unterminated`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil {
		t.Fatal("expected error for invalid CUE syntax")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.EnvName = "sxr-dev"
	cfg.EntryScript = "sxr_python.py"
	cfg.SourceScript = "/reg/g/pcds/setup/epicsenv.sh"
	cfg.EnvVars = map[string]string{"EPICS_CA_MAX_ARRAY_BYTES": "8388608"}
	cfg.EnvInherit.Deny = []string{"PYTHONSTARTUP"}

	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("loadWithOptions() on generated config error = %v", err)
	}
	if loaded.EnvName != cfg.EnvName {
		t.Errorf("EnvName = %q, want %q", loaded.EnvName, cfg.EnvName)
	}
	if loaded.EnvVars["EPICS_CA_MAX_ARRAY_BYTES"] != "8388608" {
		t.Errorf("EnvVars = %v", loaded.EnvVars)
	}
	if len(loaded.EnvInherit.Deny) != 1 || loaded.EnvInherit.Deny[0] != "PYTHONSTARTUP" {
		t.Errorf("EnvInherit.Deny = %v", loaded.EnvInherit.Deny)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	defer Reset()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	path := filepath.Join(dir, "config.cue")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// Second call is a no-op, not an error
	if err := CreateDefaultConfig(); err != nil {
		t.Errorf("CreateDefaultConfig() second call error = %v", err)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "envlaunch")
	SetConfigDirOverride(dir)
	defer Reset()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("config dir path is not a directory")
	}
}

func TestSave_OverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	defer Reset()

	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(`env_name: "stale"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.EnvName = "pcds-5.8.3"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}
	if loaded.EnvName != "pcds-5.8.3" {
		t.Errorf("EnvName = %q, want the saved value", loaded.EnvName)
	}
}
