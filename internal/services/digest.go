package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gamelens/internal/analytics"
)

// DigestOptions selects which sections the digest includes. TopN bounds the
// ranked-games section; zero falls back to the default.
type DigestOptions struct {
	IncludeActivity  bool
	IncludeTrends    bool
	IncludeCountries bool
	IncludeOverlap   bool
	TopN             int
	Granularity      analytics.Granularity
}

// DefaultDigestOptions enables every section with a yearly trend and a
// 30-game ranking.
func DefaultDigestOptions() DigestOptions {
	return DigestOptions{
		IncludeActivity:  true,
		IncludeTrends:    true,
		IncludeCountries: true,
		IncludeOverlap:   true,
		TopN:             30,
		Granularity:      analytics.Yearly,
	}
}

const (
	digestCountryRows  = 15
	digestOverlapRows  = 10
	digestOverlapFloor = 0.05
	hitThresholdCopies = 1_000_000
	defaultDigestTopN  = 30
	digestTagsPerGame  = 5
	digestCommonTags   = 10
)

// priceBandOrder fixes the band ordering for the market-structure row.
var priceBandOrder = []string{"Free", "$0-5", "$5-10", "$10-20", "$20-30", "$30-60", "$60+"}

// activityDigestLabels maps metric names to digest row labels; metrics not
// listed here are omitted from the digest section.
var activityDigestLabels = []struct {
	metric string
	label  string
}{
	{"ccu", "Concurrent players"},
	{"reviews", "Reviews"},
	{"review_score", "Review score"},
	{"playtime", "Avg playtime (h)"},
	{"followers", "Followers"},
	{"wishlists", "Wishlists"},
}

// Digest renders a sectioned plain-text market summary of the filtered
// records. An empty subset yields a single "no data" line.
func (s *AnalyticsService) Digest(ctx context.Context, c analytics.Criteria, opts DigestOptions) (string, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return "", err
	}
	return BuildDigest(records, opts), nil
}

// BuildDigest renders the digest over an already-selected record set.
func BuildDigest(records []analytics.GameRecord, opts DigestOptions) string {
	if len(records) == 0 {
		return "No data for the selected criteria."
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultDigestTopN
	}

	p := message.NewPrinter(language.English)
	var b strings.Builder

	writeOverview(&b, p, records)
	writeMarketStructure(&b, p, records)
	if opts.IncludeActivity {
		writeActivity(&b, p, records)
	}
	if opts.IncludeTrends {
		writeTrends(&b, p, records, opts.Granularity)
	}
	if opts.IncludeCountries {
		writeCountries(&b, records)
	}
	if opts.IncludeOverlap {
		writeOverlap(&b, records)
	}
	writeTopGames(&b, p, records, opts.TopN)

	return strings.TrimRight(b.String(), "\n")
}

func writeOverview(b *strings.Builder, p *message.Printer, records []analytics.GameRecord) {
	var totalRevenue, totalSales, scoreSum float64
	var scoreCount, hits int
	for _, rec := range records {
		totalRevenue += rec.Revenue
		totalSales += rec.CopiesSold
		if rec.ReviewScore > 0 {
			scoreSum += rec.ReviewScore
			scoreCount++
		}
		if rec.CopiesSold >= hitThresholdCopies {
			hits++
		}
	}
	n := float64(len(records))
	avgScore := 0.0
	if scoreCount > 0 {
		avgScore = scoreSum / float64(scoreCount)
	}

	p.Fprintf(b, "## Overview (%d games)\n", len(records))
	p.Fprintf(b, "- Total revenue: $%.0f\n", totalRevenue)
	p.Fprintf(b, "- Total copies sold: %.0f\n", totalSales)
	p.Fprintf(b, "- Avg revenue: $%.0f\n", totalRevenue/n)
	p.Fprintf(b, "- Avg copies sold: %.0f\n", totalSales/n)
	p.Fprintf(b, "- Avg review score: %.1f/100\n", avgScore)
	p.Fprintf(b, "- Hits (1M+ copies): %d\n", hits)
	b.WriteString("\n")
}

func writeMarketStructure(b *strings.Builder, p *message.Printer, records []analytics.GameRecord) {
	b.WriteString("## Market structure\n")

	bandCounts := make(map[string]int)
	for _, pb := range analytics.PriceBuckets(records) {
		bandCounts[pb.Bucket]++
	}
	bands := make([]string, 0, len(priceBandOrder))
	for _, band := range priceBandOrder {
		if n := bandCounts[band]; n > 0 {
			bands = append(bands, fmt.Sprintf("%s: %d", band, n))
		}
	}
	p.Fprintf(b, "- Price bands: %s\n", strings.Join(bands, ", "))

	tags := analytics.CommonTags(records, digestCommonTags)
	tagRows := make([]string, 0, len(tags))
	for _, tc := range tags {
		tagRows = append(tagRows, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
	}
	p.Fprintf(b, "- Common tags: %s\n", strings.Join(tagRows, ", "))

	if releases := analytics.MonthlyReleases(records); len(releases) > 0 {
		total := 0
		busiest := releases[0]
		for _, rc := range releases {
			total += rc.Count
			if rc.Count > busiest.Count {
				busiest = rc
			}
		}
		p.Fprintf(b, "- Release pace: %d dated releases over %d months, busiest %s (%d)\n",
			total, len(releases), busiest.Month, busiest.Count)
	}
	b.WriteString("\n")
}

func writeActivity(b *strings.Builder, p *message.Printer, records []analytics.GameRecord) {
	summary := analytics.ActivitySummary(records)
	b.WriteString("## Player activity\n")
	for _, row := range activityDigestLabels {
		stats := summary[row.metric]
		p.Fprintf(b, "- %s: avg %.0f / max %.0f / median %.0f\n",
			row.label, stats.Avg, stats.Max, stats.Median)
	}
	b.WriteString("\n")
}

func writeTrends(b *strings.Builder, p *message.Printer, records []analytics.GameRecord, g analytics.Granularity) {
	trend := analytics.TemporalRollup(records, g)
	label := "Yearly"
	if g == analytics.Monthly {
		label = "Monthly"
	}
	p.Fprintf(b, "## %s trend\n", label)
	for _, row := range trend {
		p.Fprintf(b, "- %s: sales +%.0f / revenue +$%.0f / active games %d / avg score %.1f\n",
			row.Period, row.SalesInc, row.RevenueInc, row.GameCount, row.AvgScore)
	}
	b.WriteString("\n")
}

func writeCountries(b *strings.Builder, records []analytics.GameRecord) {
	countries := analytics.WeightedCountryShare(records, analytics.WeightByRevenue)
	if len(countries) > digestCountryRows {
		countries = countries[:digestCountryRows]
	}
	b.WriteString("## Player share by country\n")
	for _, row := range countries {
		fmt.Fprintf(b, "- %s: %.2f%%\n", row.DisplayName, row.WeightedPct)
	}
	b.WriteString("\n")
}

func writeOverlap(b *strings.Builder, records []analytics.GameRecord) {
	overlaps := analytics.RankOverlap(records, digestOverlapRows, analytics.ByReachScore, digestOverlapFloor)
	b.WriteString("## Audience overlap (by estimated shared players)\n")
	for _, row := range overlaps {
		fmt.Fprintf(b, "- %s: link=%.3f, sold=%.1fM, est. shared=%.1fM, overlaps %.0f%% of selection\n",
			row.TargetName,
			row.AvgLink,
			row.MaxCopiesSold/1_000_000,
			row.ReachScore/1_000_000,
			row.OverlapBreadthPct)
	}
	b.WriteString("\n")
}

func writeTopGames(b *strings.Builder, p *message.Printer, records []analytics.GameRecord, topN int) {
	ranked := analytics.TopGames(records, topN, analytics.RankByRevenue)
	p.Fprintf(b, "## Top %d games by revenue\n", len(ranked))
	for i, rec := range ranked {
		year := "?"
		if y, ok := rec.ReleaseYear(); ok {
			year = fmt.Sprintf("%d", y)
		}
		tags := rec.Tags
		if len(tags) > digestTagsPerGame {
			tags = tags[:digestTagsPerGame]
		}
		p.Fprintf(b, "%d. %s (%s) | revenue $%.0f | sold %.0f | score %.0f/100 | tags: %s\n",
			i+1, rec.Name, year, rec.Revenue, rec.CopiesSold, rec.ReviewScore,
			strings.Join(tags, ", "))
	}
}
