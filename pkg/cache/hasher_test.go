package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryHash_Deterministic(t *testing.T) {
	q := &QueryKey{
		Operation:  "shortest-paths",
		Source:     "A",
		Direction:  "OUT",
		Degree:     100,
		SkipDegree: 0,
		Capacity:   -1,
		Limit:      10,
	}

	h1 := QueryHash(q)
	h2 := QueryHash(q)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32)
}

func TestQueryHash_DistinguishesQueries(t *testing.T) {
	base := QueryKey{
		Operation: "shortest-paths",
		Source:    "A",
		Direction: "OUT",
		Degree:    100,
	}

	variants := []QueryKey{
		func() QueryKey { q := base; q.Source = "B"; return q }(),
		func() QueryKey { q := base; q.Direction = "BOTH"; return q }(),
		func() QueryKey { q := base; q.Label = "knows"; return q }(),
		func() QueryKey { q := base; q.WeightProperty = "cost"; return q }(),
		func() QueryKey { q := base; q.Degree = 200; return q }(),
		func() QueryKey { q := base; q.SkipDegree = 500; return q }(),
		func() QueryKey { q := base; q.Limit = 5; return q }(),
		func() QueryKey { q := base; q.Target = "Z"; return q }(),
		func() QueryKey { q := base; q.Operation = "shortest-path"; return q }(),
	}

	baseHash := QueryHash(&base)
	seen := map[string]bool{baseHash: true}
	for _, v := range variants {
		h := QueryHash(&v)
		assert.False(t, seen[h], "hash collision for %+v", v)
		seen[h] = true
	}
}

func TestQueryHash_Nil(t *testing.T) {
	assert.Equal(t, "", QueryHash(nil))
}

func TestBuildTraversalKey(t *testing.T) {
	assert.Equal(t, "traversal:abc123", BuildTraversalKey("abc123"))
}

func TestQuickAndShortHash(t *testing.T) {
	data := []byte("hello")
	assert.Len(t, QuickHash(data), 64)
	assert.Len(t, ShortHash(data), 16)
	assert.NotEqual(t, QuickHash(data), QuickHash([]byte("world")))
}
