// SPDX-License-Identifier: MPL-2.0

// Package rewrite implements the stylesheet rewrite pass.
//
// For every directive found in the input text the engine resolves the module
// reference through the host, loads and validates the module's variables,
// serializes them in the stylesheet's dialect and splices the declarations
// into the directive's place. Directives are expanded concurrently; the output
// is reassembled from the spans captured by the initial scan, so it always
// follows document order. The first failure aborts the whole pass and no
// partial output is produced.
//
// Run is the asynchronous loader contract used by build hosts: the pass runs
// on its own goroutine and the completion callback fires exactly once.
// Rewrite is the blocking equivalent.
package rewrite
