// Package serviceorder contains the ServiceOrder aggregate and its value
// objects: the lifecycle Status, the six-checkpoint Timestamps chain with
// its validation rules, assignment bindings, and audit entries.
//
// The aggregate enforces structural invariants (valid status values, a
// gapless monotonic checkpoint chain, single active assignment per role).
// Cross-aggregate rules such as transition policy and work-session
// exclusivity live in the domain services package.
package serviceorder
