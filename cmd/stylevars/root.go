// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for stylevars.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the stylevars command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "stylevars",
		Short: "Expand data-module imports into Sass and Less variables",
		Long: TitleStyle.Render("stylevars") + SubtitleStyle.Render(" - data modules as stylesheet variables") + `

stylevars replaces directives such as

  @import "theme.js".colors;

in .scss, .sass and .less files with one variable declaration per entry
of the imported object ($name: value; for Sass, @name: value; for Less).
Data modules may be CommonJS JavaScript, JSON, CUE, YAML, TOML,
HCL or dotenv files.

` + SubtitleStyle.Render("Examples:") + `
  stylevars transform src/main.scss -o dist/main.scss
  stylevars watch src/theme.less -o dist/theme.less
  stylevars vars theme.js --property colors --dialect less
  stylevars config show`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed error guides")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/stylevars/config.cue, then ./stylevars.cue)")

	rootCmd.AddCommand(newTransformCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newVarsCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
