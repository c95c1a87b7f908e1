package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivitySummary(t *testing.T) {
	records := []GameRecord{
		{CCU: 0, ReviewsCount: 10, Price: 9.99},
		{CCU: 0, ReviewsCount: 20},
		{CCU: 100, ReviewsCount: 30, Price: 19.99},
		{CCU: 300},
	}

	out := ActivitySummary(records)
	require.Contains(t, out, "ccu")

	// Zero CCU values are absent data; stats cover [100, 300] only.
	ccu := out["ccu"]
	assert.Equal(t, 2, ccu.Count)
	assert.InDelta(t, 200.0, ccu.Avg, 1e-9)
	assert.Equal(t, 300.0, ccu.Max)
	assert.Equal(t, 300.0, ccu.Median)
	assert.Equal(t, 400.0, ccu.Total)

	reviews := out["reviews"]
	assert.Equal(t, 3, reviews.Count)
	assert.InDelta(t, 20.0, reviews.Avg, 1e-9)
	assert.Equal(t, 20.0, reviews.Median)

	// Metric with no positive observations reports the zero struct.
	assert.Equal(t, MetricStats{}, out["revenue"])
}

func TestActivitySummaryEmptyInput(t *testing.T) {
	out := ActivitySummary(nil)
	require.Len(t, out, len(ActivityMetricNames()))
	for _, name := range ActivityMetricNames() {
		assert.Equal(t, MetricStats{}, out[name], name)
	}
}

func TestActivityMetricNames(t *testing.T) {
	names := ActivityMetricNames()
	assert.Equal(t, "ccu", names[0])
	assert.Contains(t, names, "copies_sold")
	assert.Contains(t, names, "steam_percent")
	assert.Len(t, names, 11)
}

func TestSummarizeMedian(t *testing.T) {
	tests := []struct {
		name   string
		vals   []float64
		median float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count takes upper middle", []float64{4, 1, 3, 2}, 3},
		{"single value", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.median, summarize(tt.vals).Median)
		})
	}
}
