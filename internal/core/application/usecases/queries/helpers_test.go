package queries_test

import (
	"fieldservice/internal/core/domain/model/kernel"
)

// mockAggregateTracker satisfies the repositories' tracker dependency in
// read-side tests, where tracked aggregates are irrelevant.
type mockAggregateTracker struct{}

func (mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}
