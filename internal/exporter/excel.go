package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"gamelens/internal/analytics"
)

// MarketReport bundles the aggregation results that go into one workbook.
type MarketReport struct {
	TopGames []analytics.GameRecord
	Genres   []analytics.CategoryStats
	Trends   []analytics.PeriodStats
	Overlap  []analytics.OverlapSummary
}

// WriteMarketReport writes a multi-sheet xlsx workbook with the report
// contents. Empty sections are skipped.
func WriteMarketReport(report MarketReport, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	wrote := false

	if len(report.TopGames) > 0 {
		if err := writeGamesSheet(f, headerStyle, report.TopGames); err != nil {
			return err
		}
		wrote = true
	}
	if len(report.Genres) > 0 {
		if err := writeGenresSheet(f, headerStyle, report.Genres); err != nil {
			return err
		}
		wrote = true
	}
	if len(report.Trends) > 0 {
		if err := writeTrendsSheet(f, headerStyle, report.Trends); err != nil {
			return err
		}
		wrote = true
	}
	if len(report.Overlap) > 0 {
		if err := writeOverlapSheet(f, headerStyle, report.Overlap); err != nil {
			return err
		}
		wrote = true
	}

	if !wrote {
		return fmt.Errorf("market report has no data to write")
	}

	// Drop the default sheet excelize creates
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeGamesSheet(f *excelize.File, headerStyle int, records []analytics.GameRecord) error {
	const sheet = "Top Games"
	headers := []interface{}{
		"ID", "Name", "Release Year", "Price", "Copies Sold", "Revenue",
		"Review Score", "Followers", "CCU", "Genres",
	}

	if err := newSheet(f, sheet, headerStyle, headers); err != nil {
		return err
	}

	for i, rec := range records {
		row := []interface{}{
			rec.ID, rec.Name, nil, rec.Price, rec.CopiesSold, rec.Revenue,
			rec.ReviewScore, rec.Followers, rec.CCU, strings.Join(rec.Genres, "; "),
		}
		if year, ok := rec.ReleaseYear(); ok {
			row[2] = year
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "J", "J", 40)
	return nil
}

func writeGenresSheet(f *excelize.File, headerStyle int, stats []analytics.CategoryStats) error {
	const sheet = "Genres"
	headers := []interface{}{
		"Genre", "Games", "Avg Revenue", "Avg Copies Sold", "Avg Review Score", "Total Revenue",
	}

	if err := newSheet(f, sheet, headerStyle, headers); err != nil {
		return err
	}

	for i, s := range stats {
		row := []interface{}{
			s.Category, s.GameCount, s.AvgRevenue, s.AvgCopiesSold, s.AvgReviewScore, s.TotalRevenue,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTrendsSheet(f *excelize.File, headerStyle int, stats []analytics.PeriodStats) error {
	const sheet = "Trends"
	headers := []interface{}{
		"Period", "Sales", "Revenue", "Active Games", "Avg Score",
	}

	if err := newSheet(f, sheet, headerStyle, headers); err != nil {
		return err
	}

	for i, s := range stats {
		row := []interface{}{
			string(s.Period), s.SalesInc, s.RevenueInc, s.GameCount, s.AvgScore,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeOverlapSheet(f *excelize.File, headerStyle int, summaries []analytics.OverlapSummary) error {
	const sheet = "Audience Overlap"
	headers := []interface{}{
		"Target", "Referencing Games", "Breadth %", "Avg Link", "Max Copies Sold", "Reach Score",
	}

	if err := newSheet(f, sheet, headerStyle, headers); err != nil {
		return err
	}

	for i, s := range summaries {
		row := []interface{}{
			s.TargetName, s.ReferencingCount, s.OverlapBreadthPct, s.AvgLink, s.MaxCopiesSold, s.ReachScore,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 40)
	return nil
}

// newSheet creates a sheet with a styled header row.
func newSheet(f *excelize.File, name string, headerStyle int, headers []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	if err := setRow(f, name, 1, headers); err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(name, "A1", endCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

// setRow writes one row of values starting at column A.
func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on %q: %w", rowNum, sheet, err)
	}
	return nil
}
