// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a stylesheet pass:
//   - directive scanning
//   - data module decoding for every supported format
//   - variable serialization
//   - end-to-end rewriting, cached and uncached
//
// To generate a profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
