// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/pluggable/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/pluggable/config.cue on macOS,
// %APPDATA%\pluggable\config.cue on Windows). Values can be overridden with
// PLUGGABLE_* environment variables, e.g. PLUGGABLE_LOG_LEVEL=debug.
//
// Files are validated against the embedded config_schema.cue before they are merged.
package config
