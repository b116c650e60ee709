// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE helpers shared by data-module codecs and
// configuration loading.
//
// CUE is a superset of JSON, so a single compile path serves .json and .cue
// data modules and the configuration file:
//
//	v, err := cueutil.Compile(data, cueutil.WithFilename(path))
//	if err != nil {
//	    return nil, err // error carries file and CUE path
//	}
//	tree, err := cueutil.ToTree(v)
//
// Configuration files are validated against an embedded schema with
// ParseAndDecode.
package cueutil
