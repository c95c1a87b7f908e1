package analytics

import "sort"

// ActivityMetrics is the fixed set of engagement metrics the activity
// summary reports, keyed by stable metric name.
var activityMetrics = []struct {
	name  string
	value func(GameRecord) float64
}{
	{"ccu", func(r GameRecord) float64 { return r.CCU }},
	{"reviews", func(r GameRecord) float64 { return r.ReviewsCount }},
	{"review_score", func(r GameRecord) float64 { return r.ReviewScore }},
	{"playtime", func(r GameRecord) float64 { return r.AvgPlaytimeHours }},
	{"followers", func(r GameRecord) float64 { return r.Followers }},
	{"wishlists", func(r GameRecord) float64 { return r.Wishlists }},
	{"owners", func(r GameRecord) float64 { return r.Owners }},
	{"steam_percent", func(r GameRecord) float64 { return r.SteamPercent }},
	{"price", func(r GameRecord) float64 { return r.Price }},
	{"copies_sold", func(r GameRecord) float64 { return r.CopiesSold }},
	{"revenue", func(r GameRecord) float64 { return r.Revenue }},
}

// ActivityMetricNames returns the metric names in report order.
func ActivityMetricNames() []string {
	names := make([]string, len(activityMetrics))
	for i, m := range activityMetrics {
		names[i] = m.name
	}
	return names
}

// ActivitySummary summarizes every engagement metric over its
// positive-valued subset. Zeros are absent data, not observations: a metric
// where no record has a positive value reports the zero MetricStats rather
// than dividing by zero.
func ActivitySummary(records []GameRecord) map[string]MetricStats {
	out := make(map[string]MetricStats, len(activityMetrics))
	for _, m := range activityMetrics {
		vals := make([]float64, 0, len(records))
		for _, rec := range records {
			if v := m.value(rec); v > 0 {
				vals = append(vals, v)
			}
		}
		out[m.name] = summarize(vals)
	}
	return out
}

func summarize(vals []float64) MetricStats {
	if len(vals) == 0 {
		return MetricStats{}
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	return MetricStats{
		Avg:    total / float64(len(sorted)),
		Max:    sorted[len(sorted)-1],
		Median: sorted[len(sorted)/2],
		Total:  total,
		Count:  len(sorted),
	}
}
