// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylevars/stylevars/internal/datamod"
	"github.com/stylevars/stylevars/internal/issue"
	"github.com/stylevars/stylevars/internal/resolve"
	"github.com/stylevars/stylevars/pkg/dialect"
	"github.com/stylevars/stylevars/pkg/varmap"
)

// issueStyle is the glamour style used for the verbose issue guides.
const issueStyle = "auto"

// issueFor maps a pass failure to its catalog entry. Zero means no entry applies.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, resolve.ErrNotResolved):
		return issue.ModuleNotResolvedId
	case errors.Is(err, varmap.ErrEmptyExport):
		return issue.EmptyExportId
	case errors.Is(err, varmap.ErrInvalidExportShape):
		return issue.InvalidExportShapeId
	case errors.Is(err, varmap.ErrInvalidPropertyShape):
		return issue.InvalidPropertyShapeId
	case errors.Is(err, varmap.ErrInvalidVarValue):
		return issue.InvalidVarValueId
	case errors.Is(err, dialect.ErrUnsupportedFileType):
		return issue.UnsupportedFileTypeId
	case errors.Is(err, datamod.ErrUnsupportedModule):
		return issue.UnsupportedModuleId
	case errors.Is(err, datamod.ErrDecode):
		return issue.ModuleDecodeFailedId
	default:
		return 0
	}
}

// actionable wraps err with the operation and resource it failed on, linking
// the matching catalog entry. Errors that are already actionable pass through.
func actionable(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	id := issueFor(err)
	if id == 0 {
		return issue.WrapWithContext(err, operation, resource)
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id).
		WithSuggestion("Run with --verbose for a guide to this error").
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fail prints err in the CLI's own format, plus the linked issue guide in
// verbose mode, and returns an ExitError so fang does not print it again.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		if guide := ae.Issue(); guide != nil {
			if rendered, renderErr := guide.Render(issueStyle); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			} else {
				fmt.Fprintln(a.stderr, guide.Markdown())
			}
		}
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}
