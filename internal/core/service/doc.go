// Package service provides domain services for Hudson Bay outposts.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for storage dependencies.
package service
