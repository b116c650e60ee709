// SPDX-License-Identifier: MPL-2.0

package varmap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExport is returned when a module exports nothing usable.
	ErrEmptyExport = errors.New("empty export")
	// ErrInvalidExportShape is returned when a module export is not an object.
	ErrInvalidExportShape = errors.New("invalid export shape")
	// ErrInvalidPropertyShape is returned when a narrowed property is not an object.
	ErrInvalidPropertyShape = errors.New("invalid property shape")
	// ErrInvalidVarValue is returned when a variable value is not a string or finite number.
	ErrInvalidVarValue = errors.New("invalid style var value")
)

type (
	// EmptyExportError is returned when the export of Module is absent or falsy.
	// It wraps ErrEmptyExport for errors.Is() compatibility.
	EmptyExportError struct {
		Module string
	}

	// ExportShapeError is returned when the export of Module is not an object.
	// It wraps ErrInvalidExportShape for errors.Is() compatibility.
	ExportShapeError struct {
		Module string
		Kind   string
	}

	// PropertyShapeError is returned when Property of Module does not address an
	// object. Kind is "undefined" when the property does not exist.
	// It wraps ErrInvalidPropertyShape for errors.Is() compatibility.
	PropertyShapeError struct {
		Module   string
		Property string
		Kind     string
	}

	// InvalidVarValueError is returned when Key holds something other than a
	// string or a finite number. It wraps ErrInvalidVarValue for errors.Is() compatibility.
	InvalidVarValueError struct {
		Module   string
		Property string
		Key      string
		Kind     string
	}
)

// Error implements the error interface.
func (e *EmptyExportError) Error() string {
	return fmt.Sprintf("no data in '%s'", e.Module)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *EmptyExportError) Unwrap() error {
	return ErrEmptyExport
}

// Error implements the error interface.
func (e *ExportShapeError) Error() string {
	return fmt.Sprintf("export must be an object, got %s in '%s'", e.Kind, e.Module)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ExportShapeError) Unwrap() error {
	return ErrInvalidExportShape
}

// Error implements the error interface.
func (e *PropertyShapeError) Error() string {
	return fmt.Sprintf("only an object can be converted to style vars, got %s at property %q (%s)",
		e.Kind, e.Property, e.Module)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *PropertyShapeError) Unwrap() error {
	return ErrInvalidPropertyShape
}

// Error implements the error interface.
func (e *InvalidVarValueError) Error() string {
	return fmt.Sprintf(
		"style var %q must be a string or a finite number, got %s; only flat objects are supported (in %s)",
		e.Key, e.Kind, location(e.Module, e.Property))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidVarValueError) Unwrap() error {
	return ErrInvalidVarValue
}

func location(module, property string) string {
	if property == "" {
		return module
	}
	return module + ":" + property
}
