// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"os"

	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrEnvNotFound is the sentinel error wrapped by EnvNotFoundError.
	ErrEnvNotFound = errors.New("environment not found")
	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid environment manifest")
)

type (
	// Environment is a resolved runtime environment: a validated name plus
	// the directory that holds its interpreter and libraries.
	Environment struct {
		// Name is the environment's manifest key or directory name.
		Name types.EnvName
		// Root is the environment's root directory. Its bin/ subdirectory
		// is expected to hold the interpreter binaries.
		Root types.FilesystemPath
		// Description is free-form text from the manifest, empty for
		// environments resolved by directory probe.
		Description string
	}

	// ManifestEntry is one environment record in envs.toml.
	ManifestEntry struct {
		// Root is the environment's root directory. Required.
		Root string `toml:"root"`
		// Description is optional free-form text shown by listing commands.
		Description string `toml:"description,omitempty"`
	}

	// Manifest is the on-disk environment declaration format.
	Manifest struct {
		// Envs maps environment names to their entries.
		Envs map[string]ManifestEntry `toml:"envs"`
	}

	// Registry resolves environment names against a manifest and an
	// environments directory. The manifest is authoritative; the directory
	// probe is the fallback for undeclared environments.
	Registry struct {
		manifest     *Manifest
		manifestPath string
		envsDir      string
	}

	// EnvNotFoundError is returned when an environment name resolves to
	// neither a manifest entry nor a directory under the environments
	// directory. It wraps ErrEnvNotFound for errors.Is() compatibility.
	EnvNotFoundError struct {
		Name         types.EnvName
		ManifestPath string
		EnvsDir      string
	}

	// InvalidManifestError is returned when a manifest entry is malformed.
	// It wraps ErrInvalidManifest for errors.Is() compatibility.
	InvalidManifestError struct {
		Path        string
		EntryErrors []error
	}
)

// Error implements the error interface.
func (e *EnvNotFoundError) Error() string {
	switch {
	case e.ManifestPath != "" && e.EnvsDir != "":
		return fmt.Sprintf("environment %q not found: not declared in %s and no directory %s",
			e.Name, e.ManifestPath, fspath.JoinStr(types.FilesystemPath(e.EnvsDir), e.Name.String()))
	case e.ManifestPath != "":
		return fmt.Sprintf("environment %q not declared in %s", e.Name, e.ManifestPath)
	case e.EnvsDir != "":
		return fmt.Sprintf("environment %q not found under %s", e.Name, e.EnvsDir)
	}
	return fmt.Sprintf("environment %q not found: no manifest and no environments directory configured", e.Name)
}

// Unwrap returns ErrEnvNotFound for errors.Is() compatibility.
func (e *EnvNotFoundError) Unwrap() error { return ErrEnvNotFound }

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid environment manifest %s: %d entry error(s)", e.Path, len(e.EntryErrors))
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// BinDir returns the directory expected to hold the environment's
// interpreter binaries.
func (e *Environment) BinDir() types.FilesystemPath {
	return fspath.JoinStr(e.Root, "bin")
}

// LoadManifest parses an envs.toml manifest. A missing file is not an
// error: it yields an empty manifest so the directory probe can still run.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Envs: map[string]ManifestEntry{}}, nil
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Envs == nil {
		m.Envs = map[string]ManifestEntry{}
	}

	var entryErrs []error
	for name, entry := range m.Envs {
		if valid, errs := types.EnvName(name).IsValid(); !valid {
			entryErrs = append(entryErrs, errs...)
		}
		if entry.Root == "" {
			entryErrs = append(entryErrs, fmt.Errorf("environment %q: root must not be empty", name))
		}
	}
	if len(entryErrs) > 0 {
		return nil, &InvalidManifestError{Path: path, EntryErrors: entryErrs}
	}

	return &m, nil
}

// New builds a Registry from a manifest path and an environments directory.
// Either may be empty; at least one must be usable for Lookup to succeed.
func New(manifestPath, envsDir string) (*Registry, error) {
	manifest := &Manifest{Envs: map[string]ManifestEntry{}}
	if manifestPath != "" {
		m, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		manifest = m
	}

	return &Registry{
		manifest:     manifest,
		manifestPath: manifestPath,
		envsDir:      envsDir,
	}, nil
}

// Lookup resolves an environment name. Manifest entries win over the
// directory probe; both paths verify the root directory actually exists.
func (r *Registry) Lookup(name types.EnvName) (*Environment, error) {
	if valid, errs := name.IsValid(); !valid {
		return nil, errs[0]
	}

	if entry, ok := r.manifest.Envs[name.String()]; ok {
		root := types.FilesystemPath(entry.Root)
		if !dirExists(string(root)) {
			return nil, fmt.Errorf("environment %q root %s declared in %s does not exist",
				name, root, r.manifestPath)
		}
		return &Environment{
			Name:        name,
			Root:        root,
			Description: entry.Description,
		}, nil
	}

	if r.envsDir != "" {
		probed := fspath.JoinStr(types.FilesystemPath(r.envsDir), name.String())
		if dirExists(string(probed)) {
			return &Environment{Name: name, Root: probed}, nil
		}
	}

	return nil, &EnvNotFoundError{
		Name:         name,
		ManifestPath: r.manifestPath,
		EnvsDir:      r.envsDir,
	}
}

// List returns all resolvable environments sorted by name: manifest entries
// first-class, plus directories under the environments directory that are
// not shadowed by a manifest entry of the same name.
func (r *Registry) List() ([]Environment, error) {
	byName := make(map[string]Environment, len(r.manifest.Envs))
	for name, entry := range r.manifest.Envs {
		byName[name] = Environment{
			Name:        types.EnvName(name),
			Root:        types.FilesystemPath(entry.Root),
			Description: entry.Description,
		}
	}

	if r.envsDir != "" {
		dirEntries, err := os.ReadDir(r.envsDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read environments directory %s: %w", r.envsDir, err)
		}
		for _, de := range dirEntries {
			if !de.IsDir() {
				continue
			}
			if _, shadowed := byName[de.Name()]; shadowed {
				continue
			}
			if valid, _ := types.EnvName(de.Name()).IsValid(); !valid {
				continue
			}
			byName[de.Name()] = Environment{
				Name: types.EnvName(de.Name()),
				Root: fspath.JoinStr(types.FilesystemPath(r.envsDir), de.Name()),
			}
		}
	}

	names := maps.Keys(byName)
	slices.Sort(names)

	envs := make([]Environment, 0, len(names))
	for _, name := range names {
		envs = append(envs, byName[name])
	}
	return envs, nil
}

// SaveManifest writes a manifest back to disk in TOML form.
func SaveManifest(path string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
