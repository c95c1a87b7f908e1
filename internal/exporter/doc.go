// Package exporter provides CSV and xlsx export functionality for GameLens
// analytics results.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Writes per-game summaries, genre and tag rollups, period
// trends, country shares and audience-overlap rankings as CSV files.
//
// WriteMarketReport: Builds a multi-sheet xlsx workbook from the same
// aggregation results.
//
// Example usage:
//
//	reports := exporter.NewReportExporter("out")
//	if err := reports.ExportGames(records, "games.csv"); err != nil {
//	    return err
//	}
//
//	err := exporter.WriteMarketReport(exporter.MarketReport{
//	    TopGames: top,
//	    Genres:   genres,
//	    Trends:   trends,
//	}, "out/market_report.xlsx")
package exporter
