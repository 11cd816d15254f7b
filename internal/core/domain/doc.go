// Package domain defines the core domain models for the Hudson Bay
// outpost network: inventory records, synchronization payloads, session
// tokens, users, and the fault taxonomy shared by client and server.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling.
package domain
