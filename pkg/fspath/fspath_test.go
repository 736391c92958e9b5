// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"os"
	"path/filepath"
	"testing"

	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	got := fspath.Join(types.FilesystemPath("home"), types.FilesystemPath("user"))
	want := types.FilesystemPath(filepath.Join("home", "user"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("envs"), "envs.toml")
	want := types.FilesystemPath(filepath.Join("envs", "envs.toml"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestJoinStr_MultipleSegments(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("base"), "dev", "devpath")
	want := types.FilesystemPath(filepath.Join("base", "dev", "devpath"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	got := fspath.Dir(types.FilesystemPath("home/user/launch.py"))
	want := types.FilesystemPath(filepath.Dir("home/user/launch.py"))
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestBase(t *testing.T) {
	t.Parallel()

	got := fspath.Base(types.FilesystemPath("home/user/launch.py"))
	if got != "launch.py" {
		t.Errorf("Base() = %q, want %q", got, "launch.py")
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	got, err := fspath.Abs(types.FilesystemPath("."))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	wantRaw, _ := filepath.Abs(".")
	want := types.FilesystemPath(wantRaw)
	if got != want {
		t.Errorf("Abs() = %q, want %q", got, want)
	}
}

func TestEvalSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := fspath.EvalSymlinks(types.FilesystemPath(link))
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	wantRaw, _ := filepath.EvalSymlinks(target)
	if got != types.FilesystemPath(wantRaw) {
		t.Errorf("EvalSymlinks() = %q, want %q", got, wantRaw)
	}
}

func TestEvalSymlinks_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := fspath.EvalSymlinks(types.FilesystemPath(filepath.Join(t.TempDir(), "nope")))
	if err == nil {
		t.Error("EvalSymlinks() = nil error for missing path")
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath("home/user/../user/./entry.py"))
	want := types.FilesystemPath(filepath.Clean("home/user/../user/./entry.py"))
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestIsAbs(t *testing.T) {
	t.Parallel()

	if !fspath.IsAbs(types.FilesystemPath("/absolute/path")) {
		t.Error("IsAbs() = false for absolute path")
	}
	if fspath.IsAbs(types.FilesystemPath("relative/path")) {
		t.Error("IsAbs() = true for relative path")
	}
}
