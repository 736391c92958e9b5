// SPDX-License-Identifier: MPL-2.0

// Package registry resolves named runtime environments to directories on
// disk. Environments are declared in a TOML manifest (envs.toml); names not
// found in the manifest fall back to probing the configured environments
// directory for a subdirectory of the same name.
package registry
