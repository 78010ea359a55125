// Package kernel contains shared value objects used across all domain
// aggregates: UUID identifiers, the trusted actor context, and the tri-state
// Patch type that encodes the absent/clear/set semantics of partial updates.
//
// Everything in this package is immutable after construction and free of
// side effects, making the types safe to share between aggregates and across
// goroutines.
package kernel
