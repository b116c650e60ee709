// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylevars/stylevars/internal/rewrite"
	"github.com/stylevars/stylevars/internal/watch"
)

type watchFlagValues struct {
	output   string
	include  []string
	debounce time.Duration
}

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &watchFlagValues{}

	cmd := &cobra.Command{
		Use:   "watch <stylesheet>",
		Short: "Re-run the transform whenever the stylesheet or its data modules change",
		Long: `Transform a stylesheet once, then keep watching it and every data module
it imports. Each change re-runs the pass with freshly loaded modules. A failed
pass is reported and the previous output is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runWatch(cmd.Context(), app, rootFlags, flags, args[0]); err != nil {
				return app.fail(cmd, err, rootFlags.verbose)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "file the result is written to (required)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "extra glob patterns, relative to the stylesheet, that trigger a re-run")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 0, "quiet period before a re-run (overrides watch.debounce)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runWatch(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *watchFlagValues, stylesheet string) error {
	ctx, s, err := app.newSession(ctx, rootFlags)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(stylesheet)
	if err != nil {
		return fmt.Errorf("resolve stylesheet path: %w", err)
	}

	debounce := flags.debounce
	if debounce <= 0 {
		if debounce, err = s.cfg.Watch.DebounceDuration(); err != nil {
			return err
		}
	}

	host := rewrite.NewTrackingHost(s.resolver)

	// run performs one pass and returns the files to watch next. A failed
	// pass keeps watching what it registered before failing.
	run := func(ctx context.Context) []string {
		host.Reset()
		result, err := s.transformFile(ctx, host, path)
		files := append([]string{path}, host.Dependencies()...)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				fmt.Fprintln(app.stderr, WarningStyle.Render("! ")+formatErrorForDisplay(err, rootFlags.verbose))
			}
			return files
		}
		if err := writeOutput(flags.output, result); err != nil {
			fmt.Fprintln(app.stderr, WarningStyle.Render("! ")+err.Error())
			return files
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), PathStyle.Render(flags.output),
			VerboseStyle.Render(fmt.Sprintf("(%d module(s))", len(files)-1)))
		return files
	}

	files := run(ctx)

	var w *watch.Watcher
	w, err = watch.New(watch.Config{
		Files:       files,
		Include:     flags.include,
		BaseDir:     filepath.Dir(path),
		Debounce:    debounce,
		ClearScreen: s.cfg.Watch.ClearScreen,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Info("change detected, re-running", "files", len(changed))
			return w.Track(run(ctx)...)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Watching %d file(s) for changes (Ctrl+C to stop)...\n",
		VerboseStyle.Render("→"), len(files))
	return w.Run(ctx)
}
