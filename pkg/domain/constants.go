// Package domain contains the core graph-traversal domain types shared
// between the backend stores, the traversal engine and the transport layer:
// vertex identifiers, traversal directions, path chains and the weighted
// shortest-path result set.
package domain

import "fmt"

// NoLimit disables a bound. It is accepted for the per-vertex degree cap,
// the total search-space capacity and the result-count limit.
const NoLimit int64 = -1

// Id is an opaque vertex identifier issued by the backend store. Ids are
// never constructed by the traversal engine itself; they only flow through
// it as comparable map keys.
type Id string

// Direction selects which incident edges of a vertex are expanded.
type Direction string

const (
	DirectionOut  Direction = "OUT"
	DirectionIn   Direction = "IN"
	DirectionBoth Direction = "BOTH"
)

// Valid reports whether d is one of the three supported directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionOut, DirectionIn, DirectionBoth:
		return true
	}
	return false
}

// ParseDirection converts a wire-level direction string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOut, DirectionIn, DirectionBoth:
		return Direction(s), nil
	case "":
		return "", fmt.Errorf("direction is required")
	}
	return "", fmt.Errorf("unknown direction %q", s)
}
