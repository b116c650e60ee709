// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylevars/stylevars/pkg/dialect"
)

type varsFlagValues struct {
	property string
	dialect  string
}

func newVarsCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &varsFlagValues{}

	cmd := &cobra.Command{
		Use:   "vars <module>",
		Short: "Print the variable declarations a data module produces",
		Long: `Load one data module, validate it and print the declarations a directive
importing it would expand to. The module reference follows the same rules as
in a stylesheet, relative to the working directory.`,
		Example: `  stylevars vars theme.js --property colors
  stylevars vars ~design-tokens/tokens.js --dialect less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runVars(cmd.Context(), app, rootFlags, flags, args[0]); err != nil {
				return app.fail(cmd, err, rootFlags.verbose)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.property, "property", "p", "", "dotted path of the object to import")
	cmd.Flags().StringVarP(&flags.dialect, "dialect", "d", string(dialect.Sass), "output dialect: sass or less")

	return cmd
}

func runVars(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *varsFlagValues, module string) error {
	d, err := dialect.Parse(flags.dialect)
	if err != nil {
		return err
	}

	ctx, s, err := app.newSession(ctx, rootFlags)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	path, err := s.resolver.Resolve(ctx, wd, module)
	if err != nil {
		return actionable(err, "resolve module", module)
	}

	vars, err := s.loader.Load(ctx, path, flags.property)
	if err != nil {
		return actionable(err, "load module", path)
	}

	out, err := dialect.Serialize(d, vars)
	if err != nil {
		return err
	}
	fmt.Fprint(app.stdout, out)
	return nil
}
