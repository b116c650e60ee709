// SPDX-License-Identifier: MPL-2.0

// Package directive recognizes data-module import directives in stylesheet text.
//
// A directive has the form
//
//	@import "<module>.js"<.segment>*;?
//
// The module reference is quoted with matching single or double quotes and must
// end in ".js". Zero or more dot-prefixed property segments may follow the closing
// quote, and a trailing semicolon is consumed when present. Matching is
// case-insensitive and covers the whole text.
//
// The package performs syntactic recognition only. Resolving, loading and
// validating the referenced module is left to the caller.
package directive
