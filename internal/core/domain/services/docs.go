// Package services provides domain services that orchestrate the service
// order lifecycle across multiple aggregates. It implements the policy and
// coordination logic that doesn't naturally belong to a single aggregate
// root.
//
// The package includes:
//   - StatusPolicy: the table-driven, role-gated status transition rules
//   - SchedulingCoordinator: partial schedule updates with status derivation
//   - WorkLogCoordinator: the single-open-session-per-technician invariant
//     and the session side effects of status and checkpoint changes
//   - AuditTrailRecorder: field-level diffs appended to the order's ledger
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles. All of them are pure with respect to persistence: they operate
// on aggregates and sessions already loaded into the current transaction and
// report their effects back to the calling use case.
package services
