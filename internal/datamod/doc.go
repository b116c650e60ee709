// SPDX-License-Identifier: MPL-2.0

// Package datamod loads data modules referenced by stylesheet directives.
//
// A data module is a file whose top-level export is a mapping of style
// variables. The codec is chosen by file extension:
//
//	.js .cjs .mjs   CommonJS module evaluated by goja (module.exports / exports.x)
//	.json .cue      CUE (a superset of JSON)
//	.yaml .yml      YAML
//	.toml           TOML
//	.hcl            HCL attributes
//	.env            dotenv pairs
//
// Loaded exports are kept in a process-wide LRU cache, but Load always evicts
// the cached entry before reading, so every directive observes the module's
// current content even across a long-running watch session.
package datamod
