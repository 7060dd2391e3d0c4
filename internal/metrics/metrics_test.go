package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperationNoopWhenDisabled(t *testing.T) {
	enabled.Store(false)
	before := counterValue(t, "disabled_component", "get", "success")
	ObserveOperation("disabled_component", "get", time.Now(), nil)
	assert.Equal(t, before, counterValue(t, "disabled_component", "get", "success"))
}

func TestObserveOperationRecordsSuccessAndError(t *testing.T) {
	Enable()
	t.Cleanup(func() { enabled.Store(false) })

	ObserveOperation("test_component", "put", time.Now(), nil)
	ObserveOperation("test_component", "put", time.Now(), assert.AnError)

	assert.Equal(t, float64(1), counterValue(t, "test_component", "put", "success"))
	assert.Equal(t, float64(1), counterValue(t, "test_component", "put", "error"))
}

func TestObserveCacheResultRecordsHitAndMiss(t *testing.T) {
	Enable()
	t.Cleanup(func() { enabled.Store(false) })

	ObserveCacheResult("test_cache_component", true)
	ObserveCacheResult("test_cache_component", false)

	hit, err := cacheResultsTotal.GetMetricWithLabelValues("test_cache_component", "hit")
	require.NoError(t, err)
	miss, err := cacheResultsTotal.GetMetricWithLabelValues("test_cache_component", "miss")
	require.NoError(t, err)

	assert.Equal(t, float64(1), metricValue(t, hit))
	assert.Equal(t, float64(1), metricValue(t, miss))
}

func counterValue(t *testing.T, component, operation, status string) float64 {
	t.Helper()
	c, err := operationsTotal.GetMetricWithLabelValues(component, operation, status)
	require.NoError(t, err)
	return metricValue(t, c)
}

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return out.GetCounter().GetValue()
}
