// SPDX-License-Identifier: MPL-2.0

// Package varmap models data-module exports and turns them into flat variable maps.
//
// Every data-module codec decodes into the same neutral tree: *Object for
// mappings (key order preserved), string, float64, bool, nil and []any.
// Extract applies the export rules on top of that tree: the export must be a
// non-empty object, an optional dotted property narrows it to a nested object,
// and every value of the result must be a string or a finite number.
package varmap
