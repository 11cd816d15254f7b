// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// Sharding spreads lock contention across independent buckets, which
// keeps hot read paths cheap under concurrent inventory traffic.
package cmap
