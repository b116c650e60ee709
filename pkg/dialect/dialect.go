// SPDX-License-Identifier: MPL-2.0

// Package dialect selects the style-preprocessor dialect of a stylesheet and
// renders variable maps into that dialect's declaration syntax.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stylevars/stylevars/pkg/varmap"
)

const (
	// Sass covers .scss and .sass stylesheets; variables use the "$" sigil.
	Sass Dialect = "sass"
	// Less covers .less stylesheets; variables use the "@" sigil.
	Less Dialect = "less"
)

var (
	// ErrUnsupportedDialect is returned when a Dialect value is not recognized.
	ErrUnsupportedDialect = errors.New("unsupported preprocessor dialect")
	// ErrUnsupportedFileType is returned when a file extension maps to no dialect.
	ErrUnsupportedFileType = errors.New("unsupported stylesheet file type")

	// extensions maps file suffixes to dialects. Matching is case-sensitive.
	extensions = []struct {
		suffix  string
		dialect Dialect
	}{
		{".scss", Sass},
		{".sass", Sass},
		{".less", Less},
	}
)

type (
	// Dialect identifies one of the supported preprocessor variable syntaxes.
	Dialect string

	// UnsupportedDialectError is returned when a Dialect value is not recognized.
	// It wraps ErrUnsupportedDialect for errors.Is() compatibility.
	UnsupportedDialectError struct {
		Value Dialect
	}

	// UnsupportedFileTypeError is returned when Path has no recognized
	// stylesheet extension. It wraps ErrUnsupportedFileType for errors.Is() compatibility.
	UnsupportedFileTypeError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unknown preprocessor type %q (valid: sass, less)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedDialectError) Unwrap() error {
	return ErrUnsupportedDialect
}

// Error implements the error interface.
func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unknown preprocessor type for %s (expected .scss, .sass or .less)", e.Path)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedFileTypeError) Unwrap() error {
	return ErrUnsupportedFileType
}

// String returns the string representation of the Dialect.
func (d Dialect) String() string {
	return string(d)
}

// Validate returns an error if the Dialect is not one of the supported values.
func (d Dialect) Validate() error {
	switch d {
	case Sass, Less:
		return nil
	default:
		return &UnsupportedDialectError{Value: d}
	}
}

// Sigil returns the variable prefix of the dialect.
func (d Dialect) Sigil() (string, error) {
	switch d {
	case Sass:
		return "$", nil
	case Less:
		return "@", nil
	default:
		return "", &UnsupportedDialectError{Value: d}
	}
}

// FromPath derives the dialect from the extension of path.
func FromPath(path string) (Dialect, error) {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext.suffix) {
			return ext.dialect, nil
		}
	}
	return "", &UnsupportedFileTypeError{Path: path}
}

// Parse converts a user-supplied name into a Dialect.
func Parse(name string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(name)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Serialize renders vars as one "<sigil><name>: <value>;" line per variable,
// in map order, each terminated by a newline.
func Serialize(d Dialect, vars varmap.VarMap) (string, error) {
	sigil, err := d.Sigil()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for v := range vars.Vars() {
		sb.WriteString(sigil)
		sb.WriteString(v.Name)
		sb.WriteString(": ")
		sb.WriteString(v.Text())
		sb.WriteString(";\n")
	}
	return sb.String(), nil
}
