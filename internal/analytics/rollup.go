package analytics

import (
	"fmt"
	"sort"
	"time"
)

// categoryAccumulator collects the running sums for one genre or tag group.
// Scores are accumulated separately because zero scores are absent data and
// must not dilute the average.
type categoryAccumulator struct {
	revenueSum float64
	salesSum   float64
	scoreSum   float64
	scoreCount int
	count      int
}

func (a *categoryAccumulator) add(rec GameRecord) {
	a.revenueSum += rec.Revenue
	a.salesSum += rec.CopiesSold
	a.count++
	if rec.ReviewScore > 0 {
		a.scoreSum += rec.ReviewScore
		a.scoreCount++
	}
}

func (a *categoryAccumulator) finalize(category string) CategoryStats {
	stats := CategoryStats{
		Category:     category,
		GameCount:    a.count,
		TotalRevenue: a.revenueSum,
	}
	if a.count > 0 {
		stats.AvgRevenue = a.revenueSum / float64(a.count)
		stats.AvgCopiesSold = a.salesSum / float64(a.count)
	}
	if a.scoreCount > 0 {
		stats.AvgReviewScore = a.scoreSum / float64(a.scoreCount)
	}
	return stats
}

// GenreRollup groups records by genre and summarizes each group, sorted by
// total revenue descending.
func GenreRollup(records []GameRecord) []CategoryStats {
	return categoryRollup(records, func(r GameRecord) []string { return r.Genres },
		func(a, b CategoryStats) bool { return a.TotalRevenue > b.TotalRevenue })
}

// TagRollup groups records by tag and summarizes each group, sorted by game
// count descending.
func TagRollup(records []GameRecord) []CategoryStats {
	return categoryRollup(records, func(r GameRecord) []string { return r.Tags },
		func(a, b CategoryStats) bool { return a.GameCount > b.GameCount })
}

func categoryRollup(records []GameRecord, keys func(GameRecord) []string, less func(a, b CategoryStats) bool) []CategoryStats {
	groups := make(map[string]*categoryAccumulator)
	for _, rec := range records {
		for _, key := range keys(rec) {
			acc, ok := groups[key]
			if !ok {
				acc = &categoryAccumulator{}
				groups[key] = acc
			}
			acc.add(rec)
		}
	}

	out := make([]CategoryStats, 0, len(groups))
	for key, acc := range groups {
		out = append(out, acc.finalize(key))
	}
	sort.Slice(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// periodAccumulator collects cross-record activity for one period.
type periodAccumulator struct {
	salesInc   float64
	revenueInc float64
	gameCount  int
	scoreSum   float64
	scoreCount int
}

// TemporalRollup runs the increment calculator per record and sums activity
// per period. A period's GameCount counts only records with positive sales
// in that period, so idle titles do not inflate market breadth; AvgScore is
// the mean of positive scores only.
func TemporalRollup(records []GameRecord, g Granularity) []PeriodStats {
	totals := make(map[Period]*periodAccumulator)
	for _, rec := range records {
		for _, pm := range IncrementsByPeriod(rec.History, g) {
			acc, ok := totals[pm.Period]
			if !ok {
				acc = &periodAccumulator{}
				totals[pm.Period] = acc
			}
			acc.salesInc += pm.SalesInc
			acc.revenueInc += pm.RevenueInc
			if pm.SalesInc > 0 {
				acc.gameCount++
			}
			if pm.Score > 0 {
				acc.scoreSum += pm.Score
				acc.scoreCount++
			}
		}
	}

	periods := make([]Period, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })

	out := make([]PeriodStats, 0, len(periods))
	for _, p := range periods {
		acc := totals[p]
		stats := PeriodStats{
			Period:     p,
			SalesInc:   acc.salesInc,
			RevenueInc: acc.revenueInc,
			GameCount:  acc.gameCount,
		}
		if acc.scoreCount > 0 {
			stats.AvgScore = acc.scoreSum / float64(acc.scoreCount)
		}
		out = append(out, stats)
	}
	return out
}

// RankMetric selects the field TopGames orders by.
type RankMetric int

const (
	// RankByRevenue orders by lifetime revenue
	RankByRevenue RankMetric = iota
	// RankBySales orders by copies sold
	RankBySales
	// RankByScore orders by review score
	RankByScore
	// RankByCCU orders by concurrent players
	RankByCCU
)

// ParseRankMetric converts a string flag to a RankMetric.
func ParseRankMetric(s string) (RankMetric, error) {
	switch s {
	case "revenue", "":
		return RankByRevenue, nil
	case "sales", "copies_sold":
		return RankBySales, nil
	case "score", "review_score":
		return RankByScore, nil
	case "ccu":
		return RankByCCU, nil
	default:
		return 0, fmt.Errorf("invalid rank metric %q", s)
	}
}

func (m RankMetric) value(rec GameRecord) float64 {
	switch m {
	case RankBySales:
		return rec.CopiesSold
	case RankByScore:
		return rec.ReviewScore
	case RankByCCU:
		return rec.CCU
	default:
		return rec.Revenue
	}
}

// TopGames returns the n records with the highest value of the chosen
// metric, descending. The input is not mutated.
func TopGames(records []GameRecord, n int, metric RankMetric) []GameRecord {
	ranked := make([]GameRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric.value(ranked[i]) > metric.value(ranked[j])
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TagCount is one entry of a tag frequency vocabulary.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CommonTags returns the topN most frequent tags across the collection.
func CommonTags(records []GameRecord, topN int) []TagCount {
	counts := tagCounts(records, func(r GameRecord) []string { return r.Tags })
	if topN > 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// TagVocabulary returns every tag appearing at least minCount times,
// ordered by frequency descending.
func TagVocabulary(records []GameRecord, minCount int) []string {
	out := []string{}
	for _, tc := range tagCounts(records, func(r GameRecord) []string { return r.Tags }) {
		if tc.Count >= minCount {
			out = append(out, tc.Tag)
		}
	}
	return out
}

// GenreVocabulary returns every genre ordered by frequency descending.
func GenreVocabulary(records []GameRecord) []string {
	counts := tagCounts(records, func(r GameRecord) []string { return r.Genres })
	out := make([]string, 0, len(counts))
	for _, tc := range counts {
		out = append(out, tc.Tag)
	}
	return out
}

func tagCounts(records []GameRecord, keys func(GameRecord) []string) []TagCount {
	counter := make(map[string]int)
	for _, rec := range records {
		for _, key := range keys(rec) {
			counter[key]++
		}
	}
	out := make([]TagCount, 0, len(counter))
	for tag, n := range counter {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// PriceBucket labels one record with its price band.
type PriceBucket struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Bucket      string  `json:"bucket"`
	Revenue     float64 `json:"revenue"`
	CopiesSold  float64 `json:"copies_sold"`
	ReviewScore float64 `json:"review_score"`
}

// PriceBuckets maps each record onto a fixed price band, preserving input
// order. Band edges follow the common storefront tiers.
func PriceBuckets(records []GameRecord) []PriceBucket {
	out := make([]PriceBucket, 0, len(records))
	for _, rec := range records {
		out = append(out, PriceBucket{
			Name:        rec.Name,
			Price:       rec.Price,
			Bucket:      priceBand(rec.Price),
			Revenue:     rec.Revenue,
			CopiesSold:  rec.CopiesSold,
			ReviewScore: rec.ReviewScore,
		})
	}
	return out
}

func priceBand(price float64) string {
	switch {
	case price == 0:
		return "Free"
	case price < 5:
		return "$0-5"
	case price < 10:
		return "$5-10"
	case price < 20:
		return "$10-20"
	case price < 30:
		return "$20-30"
	case price < 60:
		return "$30-60"
	default:
		return "$60+"
	}
}

// ReleaseCount is the number of titles first released in one month.
type ReleaseCount struct {
	Month Period `json:"month"`
	Count int    `json:"count"`
}

// MonthlyReleases counts releases per calendar month, ascending. Records
// without a parseable release timestamp are skipped.
func MonthlyReleases(records []GameRecord) []ReleaseCount {
	monthly := make(map[Period]int)
	for _, rec := range records {
		ts := rec.ReleaseDate
		if ts == 0 {
			ts = rec.FirstReleaseDate
		}
		if ts == 0 {
			continue
		}
		monthly[Period(time.UnixMilli(ts).UTC().Format("2006-01"))]++
	}

	out := make([]ReleaseCount, 0, len(monthly))
	for month, n := range monthly {
		out = append(out, ReleaseCount{Month: month, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
