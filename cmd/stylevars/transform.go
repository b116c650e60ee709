// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stylevars/stylevars/internal/issue"
	"github.com/stylevars/stylevars/internal/rewrite"
	"github.com/stylevars/stylevars/pkg/varmap"
)

type transformFlagValues struct {
	output   string
	showDeps bool
}

func newTransformCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &transformFlagValues{}

	cmd := &cobra.Command{
		Use:   "transform <stylesheet>",
		Short: "Expand data-module directives in a stylesheet",
		Long: `Run one rewrite pass over a .scss, .sass or .less file.

The result is printed to stdout unless --output is given. Module references
resolve relative to the stylesheet's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runTransform(cmd.Context(), app, rootFlags, flags, args[0]); err != nil {
				return app.fail(cmd, err, rootFlags.verbose)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&flags.showDeps, "deps", false, "list the data modules the stylesheet depends on (stderr)")

	return cmd
}

func runTransform(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *transformFlagValues, stylesheet string) error {
	ctx, s, err := app.newSession(ctx, rootFlags)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(stylesheet)
	if err != nil {
		return fmt.Errorf("resolve stylesheet path: %w", err)
	}

	host := rewrite.NewTrackingHost(s.resolver)
	result, err := s.transformFile(ctx, host, path)
	if err != nil {
		return err
	}

	if flags.output == "" {
		fmt.Fprint(app.stdout, result)
	} else if err := writeOutput(flags.output, result); err != nil {
		return err
	}

	if flags.showDeps {
		for _, dep := range host.Dependencies() {
			fmt.Fprintln(app.stderr, VerboseStyle.Render("dep ")+PathStyle.Render(dep)+" "+
				VerboseStyle.Render("("+s.moduleSummary(dep)+")"))
		}
	}

	s.logger.Info("transformed stylesheet", "path", path, "deps", len(host.Dependencies()))
	return nil
}

// transformFile reads the stylesheet at path and runs one pass over it.
func (s *session) transformFile(ctx context.Context, host rewrite.Host, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("read stylesheet").
			WithResource(path).
			WithIssue(issue.StylesheetNotFoundId).
			Wrap(err).
			BuildError()
	}

	result, err := s.pass(ctx, host, path, string(content))
	if err != nil {
		return "", actionable(err, "transform stylesheet", path)
	}
	return result, nil
}

// moduleSummary describes the export last loaded from path, as held by the
// module cache.
func (s *session) moduleSummary(path string) string {
	export, ok := s.loader.Cached(path)
	if !ok {
		return "not cached"
	}
	if obj, isObj := export.(*varmap.Object); isObj && obj != nil {
		return fmt.Sprintf("%d top-level keys", obj.Len())
	}
	return varmap.KindOf(export)
}

// writeOutput writes result to path, creating parent directories.
func writeOutput(path, result string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
