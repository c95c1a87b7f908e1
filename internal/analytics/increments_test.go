package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(year, month, day int) int64 {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestIncrementsByPeriod(t *testing.T) {
	t.Run("empty history yields empty result", func(t *testing.T) {
		assert.Empty(t, IncrementsByPeriod(nil, Yearly))
		assert.Empty(t, IncrementsByPeriod([]HistorySnapshot{}, Yearly))
	})

	t.Run("snapshots without timestamp are dropped", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: 0, Sales: 999},
			{TimestampMs: ms(2022, 6, 1), Sales: 100, Revenue: 1000},
		}
		out := IncrementsByPeriod(history, Yearly)
		require.Len(t, out, 1)
		assert.Equal(t, Period("2022"), out[0].Period)
		assert.Equal(t, 100.0, out[0].SalesInc)
	})

	t.Run("single snapshot increments equal cumulative values", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: ms(2021, 3, 15), Sales: 5000, Revenue: 75000, CCU: 42},
		}
		out := IncrementsByPeriod(history, Yearly)
		require.Len(t, out, 1)
		assert.Equal(t, 5000.0, out[0].SalesInc)
		assert.Equal(t, 75000.0, out[0].RevenueInc)
		assert.Equal(t, 5000.0, out[0].Sales)
		assert.Equal(t, 42.0, out[0].CCU)
	})

	t.Run("latest snapshot within a period wins", func(t *testing.T) {
		// Three snapshots in 2022; only the June one is authoritative.
		history := []HistorySnapshot{
			{TimestampMs: ms(2022, 6, 30), Sales: 300, Revenue: 3000, Score: 90},
			{TimestampMs: ms(2022, 1, 1), Sales: 100, Revenue: 1000, Score: 80},
			{TimestampMs: ms(2022, 3, 1), Sales: 200, Revenue: 2000, Score: 85},
		}
		out := IncrementsByPeriod(history, Yearly)
		require.Len(t, out, 1)
		assert.Equal(t, 300.0, out[0].SalesInc)
		assert.Equal(t, 3000.0, out[0].RevenueInc)
		assert.Equal(t, 90.0, out[0].Score)
	})

	t.Run("increments are deltas against prior period cumulative", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: ms(2020, 12, 1), Sales: 1000, Revenue: 10000},
			{TimestampMs: ms(2021, 12, 1), Sales: 1500, Revenue: 18000},
			{TimestampMs: ms(2022, 12, 1), Sales: 1600, Revenue: 19000},
		}
		out := IncrementsByPeriod(history, Yearly)
		require.Len(t, out, 3)
		assert.Equal(t, 1000.0, out[0].SalesInc)
		assert.Equal(t, 500.0, out[1].SalesInc)
		assert.Equal(t, 8000.0, out[1].RevenueInc)
		assert.Equal(t, 100.0, out[2].SalesInc)
	})

	t.Run("downward revision clamps to zero without offsetting later periods", func(t *testing.T) {
		// 2021 revises sales down; the increment clamps at 0 and the 2022
		// baseline is the revised value, not the 2020 one.
		history := []HistorySnapshot{
			{TimestampMs: ms(2020, 12, 1), Sales: 1000, Revenue: 10000},
			{TimestampMs: ms(2021, 12, 1), Sales: 800, Revenue: 9000},
			{TimestampMs: ms(2022, 12, 1), Sales: 900, Revenue: 9500},
		}
		out := IncrementsByPeriod(history, Yearly)
		require.Len(t, out, 3)
		assert.Equal(t, 0.0, out[1].SalesInc)
		assert.Equal(t, 0.0, out[1].RevenueInc)
		assert.Equal(t, 100.0, out[2].SalesInc)
		assert.Equal(t, 500.0, out[2].RevenueInc)
	})

	t.Run("increments are never negative", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: ms(2019, 1, 1), Sales: 100, Revenue: 500},
			{TimestampMs: ms(2020, 1, 1), Sales: 50, Revenue: 100},
			{TimestampMs: ms(2021, 1, 1), Sales: 40, Revenue: 90},
		}
		for _, pm := range IncrementsByPeriod(history, Yearly) {
			assert.GreaterOrEqual(t, pm.SalesInc, 0.0)
			assert.GreaterOrEqual(t, pm.RevenueInc, 0.0)
		}
	})

	t.Run("monthly granularity keys by year and month", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: ms(2023, 1, 15), Sales: 100},
			{TimestampMs: ms(2023, 2, 15), Sales: 250},
			{TimestampMs: ms(2023, 2, 20), Sales: 300},
		}
		out := IncrementsByPeriod(history, Monthly)
		require.Len(t, out, 2)
		assert.Equal(t, Period("2023-01"), out[0].Period)
		assert.Equal(t, Period("2023-02"), out[1].Period)
		assert.Equal(t, 200.0, out[1].SalesInc)
	})

	t.Run("recomputation is deterministic", func(t *testing.T) {
		history := []HistorySnapshot{
			{TimestampMs: ms(2020, 5, 1), Sales: 10, Revenue: 100},
			{TimestampMs: ms(2021, 5, 1), Sales: 30, Revenue: 400},
			{TimestampMs: ms(2020, 8, 1), Sales: 20, Revenue: 200},
		}
		first := IncrementsByPeriod(history, Yearly)
		second := IncrementsByPeriod(history, Yearly)
		assert.Equal(t, first, second)
	})
}

func TestGameHistory(t *testing.T) {
	rec := GameRecord{History: []HistorySnapshot{
		{TimestampMs: ms(2022, 4, 1), Sales: 100, Revenue: 900},
	}}
	out := GameHistory(rec, Monthly)
	require.Len(t, out, 1)
	assert.Equal(t, Period("2022-04"), out[0].Period)
}
