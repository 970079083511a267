package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// QueryKey identifies a traversal query for caching. Two queries with the
// same key are guaranteed to produce the same result against an unchanged
// graph.
type QueryKey struct {
	Operation      string
	Source         string
	Target         string
	Direction      string
	Label          string
	WeightProperty string
	Degree         int64
	SkipDegree     int64
	Capacity       int64
	Limit          int64
}

// QueryHash computes a deterministic hash of a traversal query for use as a
// cache key.
func QueryHash(q *QueryKey) string {
	if q == nil {
		return ""
	}

	data := queryToCanonical(q)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// queryToCanonical builds a deterministic byte representation of the query.
func queryToCanonical(q *QueryKey) []byte {
	return []byte(fmt.Sprintf("op:%s;s:%s;t:%s;d:%s;l:%s;w:%s;deg:%d;skip:%d;cap:%d;lim:%d;",
		q.Operation, q.Source, q.Target, q.Direction, q.Label, q.WeightProperty,
		q.Degree, q.SkipDegree, q.Capacity, q.Limit))
}

// BuildTraversalKey builds the cache key for a traversal result.
func BuildTraversalKey(queryHash string) string {
	return fmt.Sprintf("traversal:%s", queryHash)
}

// QuickHash computes a full-length hash of arbitrary data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash computes a short (16 character) hash of arbitrary data.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
