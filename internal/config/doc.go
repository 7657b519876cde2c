// SPDX-License-Identifier: MPL-2.0

// Package config handles riot's runner settings using Viper with CUE as the file format.
//
// Settings are read from the file given with --config, else from
// $XDG_CONFIG_HOME/riot/config.cue (~/Library/Application Support/riot on macOS,
// %APPDATA%\riot on Windows), else from ./riot.config.cue. Every key can be
// overridden through a RIOT_ prefixed environment variable, with dots replaced by
// underscores (RIOT_PROVISION_INSTALL).
//
// Files are validated against the embedded #Config schema (config_schema.cue)
// before they are merged over the defaults.
package config
