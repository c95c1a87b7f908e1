package exporter

import (
	"fmt"
	"sort"
	"strings"

	"gamelens/internal/analytics"
)

// ReportExporter writes analytics aggregation results as CSV reports.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a new report exporter rooted at baseDir.
func NewReportExporter(baseDir string) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(baseDir),
	}
}

// ExportGames writes one row per game with its headline metrics.
func (e *ReportExporter) ExportGames(records []analytics.GameRecord, filePath string) error {
	headers := []string{
		"ID", "Name", "ReleaseYear", "Price", "CopiesSold", "Revenue",
		"ReviewScore", "ReviewsCount", "Followers", "CCU", "AvgPlaytimeHours",
		"Genres", "Tags",
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		year := ""
		if y, ok := rec.ReleaseYear(); ok {
			year = formatInt(y)
		}
		rows = append(rows, []string{
			rec.ID,
			rec.Name,
			year,
			formatFloat(rec.Price),
			formatFloat(rec.CopiesSold),
			formatFloat(rec.Revenue),
			formatFloat(rec.ReviewScore),
			formatFloat(rec.ReviewsCount),
			formatFloat(rec.Followers),
			formatFloat(rec.CCU),
			formatFloat(rec.AvgPlaytimeHours),
			strings.Join(rec.Genres, "; "),
			strings.Join(rec.Tags, "; "),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}

// ExportCategoryRollup writes one row per genre or tag group.
func (e *ReportExporter) ExportCategoryRollup(stats []analytics.CategoryStats, filePath string) error {
	headers := []string{"Category", "GameCount", "AvgRevenue", "AvgCopiesSold", "AvgReviewScore", "TotalRevenue"}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Category,
			formatInt(s.GameCount),
			formatFloat(s.AvgRevenue),
			formatFloat(s.AvgCopiesSold),
			formatFloat(s.AvgReviewScore),
			formatFloat(s.TotalRevenue),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}

// ExportTrends writes the period activity rollup, one row per period.
func (e *ReportExporter) ExportTrends(stats []analytics.PeriodStats, filePath string) error {
	headers := []string{"Period", "SalesInc", "RevenueInc", "GameCount", "AvgScore"}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			string(s.Period),
			formatFloat(s.SalesInc),
			formatFloat(s.RevenueInc),
			formatInt(s.GameCount),
			formatFloat(s.AvgScore),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}

// ExportCountries writes the weighted country share table.
func (e *ReportExporter) ExportCountries(shares []analytics.CountryShare, filePath string) error {
	headers := []string{"Code", "Country", "WeightedShare"}

	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{
			s.Code,
			s.DisplayName,
			formatPercent(s.WeightedPct),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}

// ExportOverlap writes the ranked audience-overlap targets.
func (e *ReportExporter) ExportOverlap(summaries []analytics.OverlapSummary, filePath string) error {
	headers := []string{
		"TargetID", "TargetName", "ReferencingCount", "OverlapBreadth",
		"AvgLink", "MaxCopiesSold", "ReachScore", "Genres",
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.TargetID,
			s.TargetName,
			formatInt(s.ReferencingCount),
			formatPercent(s.OverlapBreadthPct),
			fmt.Sprintf("%.4f", s.AvgLink),
			formatFloat(s.MaxCopiesSold),
			formatFloat(s.ReachScore),
			strings.Join(s.TargetGenres, "; "),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}

// ExportActivity writes per-metric engagement statistics in metric name
// order.
func (e *ReportExporter) ExportActivity(stats map[string]analytics.MetricStats, filePath string) error {
	headers := []string{"Metric", "Avg", "Median", "Max", "Total", "Count"}

	metrics := make([]string, 0, len(stats))
	for name := range stats {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	rows := make([][]string, 0, len(metrics))
	for _, name := range metrics {
		s := stats[name]
		rows = append(rows, []string{
			name,
			formatFloat(s.Avg),
			formatFloat(s.Median),
			formatFloat(s.Max),
			formatFloat(s.Total),
			formatInt(s.Count),
		})
	}

	return e.csvWriter.WriteSimpleCSV(filePath, headers, rows)
}
