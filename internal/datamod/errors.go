// SPDX-License-Identifier: MPL-2.0

package datamod

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedModule is returned when no codec handles a module's extension.
	ErrUnsupportedModule = errors.New("unsupported data module")
	// ErrDecode is returned when a module's content cannot be decoded.
	ErrDecode = errors.New("data module decode failed")
)

type (
	// UnsupportedModuleError is returned when Path has an extension no codec handles.
	// It wraps ErrUnsupportedModule for errors.Is() compatibility.
	UnsupportedModuleError struct {
		Path string
		Ext  string
	}

	// DecodeError is returned when the content of Path cannot be decoded.
	// It wraps both ErrDecode and the codec's Cause.
	DecodeError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *UnsupportedModuleError) Error() string {
	return fmt.Sprintf("no codec for %q data modules: %s", e.Ext, e.Path)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedModuleError) Unwrap() error {
	return ErrUnsupportedModule
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode data module %s: %v", e.Path, e.Cause)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Cause}
}
