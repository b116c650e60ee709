// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned when an input exceeds the configured maximum size.
var ErrFileTooLarge = stderrors.New("file too large")

// FormatError rewrites a CUE error as "<file>: <path>: <message>", one line
// per underlying CUE error. Non-CUE errors are wrapped with the file name.
//
//	vars.js: colors.primary: reference "blue" not found
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// errors.Errors would promote a plain error into a one-element list and
	// drop its wrap chain.
	var ce errors.Error
	if !stderrors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrors := errors.Errors(err)

	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		path := formatPath(errors.Path(e))
		msg := e.Error()
		if path == "" {
			lines = append(lines, msg)
			continue
		}
		// CUE sometimes repeats the path at the start of the message.
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		lines = append(lines, path+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: %d errors:\n  %s", filePath, len(lines), strings.Join(lines, "\n  "))
}

// formatPath joins a CUE error path in JSON-path notation: numeric elements
// become indices, so ["sizes", "0", "px"] reads "sizes[0].px".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error if data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes: %w",
			filename, len(data), maxSize, ErrFileTooLarge)
	}
	return nil
}
