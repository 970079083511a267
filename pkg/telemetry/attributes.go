package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard span attribute keys.
const (
	// Query
	AttrSource         = "traversal.source"
	AttrTarget         = "traversal.target"
	AttrDirection      = "traversal.direction"
	AttrLabel          = "traversal.label"
	AttrWeightProperty = "traversal.weight_property"
	AttrDegree         = "traversal.degree"
	AttrSkipDegree     = "traversal.skip_degree"
	AttrCapacity       = "traversal.capacity"
	AttrLimit          = "traversal.limit"

	// Outcome
	AttrRounds      = "traversal.rounds"
	AttrSearchSpace = "traversal.search_space"
	AttrResultCount = "traversal.result_count"
	AttrTargetFound = "traversal.target_found"

	// Store
	AttrStoreDriver = "store.driver"
)

// QueryAttributes returns the span attributes describing a traversal query.
func QueryAttributes(source, direction, label string, degree, skipDegree, capacity int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSource, source),
		attribute.String(AttrDirection, direction),
		attribute.String(AttrLabel, label),
		attribute.Int64(AttrDegree, degree),
		attribute.Int64(AttrSkipDegree, skipDegree),
		attribute.Int64(AttrCapacity, capacity),
	}
}

// OutcomeAttributes returns the span attributes describing a finished
// traversal.
func OutcomeAttributes(rounds, searchSpace, results int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64(AttrRounds, rounds),
		attribute.Int64(AttrSearchSpace, searchSpace),
		attribute.Int64(AttrResultCount, results),
	}
}
