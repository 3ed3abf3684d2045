// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pluggable CLI.
//
// Commands operate on a plugin catalog (a .cue or .toml file declaring plugins,
// their dependencies and the targets to compose). The catalog path is the first
// positional argument; without one, the configured catalog is used.
package cmd
