package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	m := NewMetrics("test", "svc")
	require.NotNil(t, m.Registry())

	m.RecordHTTPRequest("POST", "/api/v1/shortest-paths", 200, 25*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/shortest-paths", 400, time.Millisecond)

	count := testutil.CollectAndCount(m.HTTPRequestsTotal)
	assert.Equal(t, 2, count)
}

func TestRecordTraversal(t *testing.T) {
	m := NewMetrics("test", "traversal")

	m.RecordTraversal("shortest_paths", true, 10*time.Millisecond, 3, 120, 7)
	m.RecordTraversal("shortest_paths", false, time.Millisecond, 0, 0, 0)

	ok := testutil.ToFloat64(m.TraversalsTotal.WithLabelValues("shortest_paths", "ok"))
	failed := testutil.ToFloat64(m.TraversalsTotal.WithLabelValues("shortest_paths", "error"))
	assert.Equal(t, 1.0, ok)
	assert.Equal(t, 1.0, failed)

	// Rounds are only observed for successful traversals.
	assert.Equal(t, 1, testutil.CollectAndCount(m.TraversalRounds))
}

func TestRecordCacheLookup(t *testing.T) {
	m := NewMetrics("test", "cache")

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal))
}

func TestSupernodesSkipped(t *testing.T) {
	m := NewMetrics("test", "sampler")

	m.SupernodesSkipped.Inc()
	m.SupernodesSkipped.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SupernodesSkipped))
}

func TestServiceInfo(t *testing.T) {
	m := NewMetrics("test", "info")
	m.SetServiceInfo("1.2.3", "production")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceInfo.WithLabelValues("1.2.3", "production")))
}

func TestInitMetrics_Idempotent(t *testing.T) {
	a := InitMetrics("pathfinder", "")
	b := InitMetrics("other", "")
	assert.Same(t, a, b)
	assert.Same(t, a, Get())
}
