package analytics

import "sort"

// IncrementsByPeriod collapses a cumulative history into per-period metrics,
// ordered ascending by period.
//
// Within each calendar period only the snapshot with the latest timestamp
// counts; earlier snapshots in the same period are corrections that have
// been superseded. Increments are the delta against the previous period's
// reported cumulative value, clamped at zero so a downward revision never
// produces a negative period. The running baseline always tracks the latest
// reported cumulative value, not the sum of prior increments, so a revision
// does not propagate a permanent offset.
//
// Snapshots without a timestamp contribute nothing; a history with no usable
// snapshots yields an empty result, not an error.
func IncrementsByPeriod(history []HistorySnapshot, g Granularity) []PeriodMetrics {
	latest := make(map[Period]HistorySnapshot)
	for _, snap := range history {
		if snap.TimestampMs <= 0 {
			continue
		}
		key := periodOf(snap.TimestampMs, g)
		if prev, ok := latest[key]; !ok || snap.TimestampMs > prev.TimestampMs {
			latest[key] = snap
		}
	}
	if len(latest) == 0 {
		return nil
	}

	periods := make([]Period, 0, len(latest))
	for p := range latest {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })

	out := make([]PeriodMetrics, 0, len(periods))
	var prevSales, prevRevenue float64
	for _, p := range periods {
		snap := latest[p]
		out = append(out, PeriodMetrics{
			Period:        p,
			SalesInc:      max(0, snap.Sales-prevSales),
			RevenueInc:    max(0, snap.Revenue-prevRevenue),
			Sales:         snap.Sales,
			Revenue:       snap.Revenue,
			CCU:           snap.CCU,
			Score:         snap.Score,
			PlaytimeHours: snap.PlaytimeHours,
			Price:         snap.Price,
			Followers:     snap.Followers,
			Wishlists:     snap.Wishlists,
			ReviewsCount:  snap.ReviewsCount,
		})
		prevSales = snap.Sales
		prevRevenue = snap.Revenue
	}
	return out
}

// GameHistory is the single-record form of the period series: the filtered
// collection variant lives in TemporalRollup.
func GameHistory(rec GameRecord, g Granularity) []PeriodMetrics {
	return IncrementsByPeriod(rec.History, g)
}
