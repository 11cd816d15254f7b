// Package storage defines the inventory record store contract and its
// Badger-backed persistent implementation.
//
// Outposts that need durability across restarts use the Badger store;
// tests and ephemeral deployments use the in-memory store from the
// memory subpackage. Both honor the same RecordStore interface.
package storage
