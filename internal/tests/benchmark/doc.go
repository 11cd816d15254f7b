// Package benchmark contains cross-package performance benchmarks for
// the hot paths: sync imports, token issuance and the sharded map.
//
// Run with:
//
//	go test -bench=. ./internal/tests/benchmark/
package benchmark
