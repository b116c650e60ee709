// SPDX-License-Identifier: MPL-2.0

// Package config handles stylevars configuration using Viper with CUE as the file format.
//
// Configuration is looked up in order: an explicit file (the --config flag), then
// config.cue inside the user config directory ($XDG_CONFIG_HOME/stylevars on Linux,
// ~/Library/Application Support/stylevars on macOS, %APPDATA%\stylevars on Windows),
// then stylevars.cue in the working directory. When no file exists the defaults apply.
// Every key can be overridden from the environment with the STYLEVARS_ prefix.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before
// they are merged into Viper.
package config
