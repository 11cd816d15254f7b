// Package client implements the outpost synchronization client.
//
// It layers a typed HTTP API over a retrying request executor, manages
// session tokens, caches read responses with a TTL bound, and drives
// the cross-outpost export/import protocol.
package client
