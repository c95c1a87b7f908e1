package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gamelens/internal/analytics"
	"gamelens/internal/config"
	"gamelens/internal/exporter"
	"gamelens/internal/infrastructure"
	"gamelens/internal/services"
	"gamelens/internal/store"
)

func main() {
	dir := flag.String("dir", "", "dataset directory (defaults to the configured dataset dir)")
	out := flag.String("out", "", "digest output file (defaults to stdout)")
	tags := flag.String("tags", "", "comma-separated tag filter, any match")
	genres := flag.String("genres", "", "comma-separated genre filter, any match")
	yearMin := flag.Int("year-min", 0, "minimum release year, 0 disables")
	yearMax := flag.Int("year-max", 0, "maximum release year, 0 disables")
	soldMin := flag.Float64("sold-min", 0, "minimum copies sold, 0 disables")
	reviewsMin := flag.Float64("reviews-min", 0, "minimum reviews count, 0 disables")
	granularity := flag.String("granularity", "yearly", "trend granularity: yearly | monthly")
	top := flag.Int("top", 30, "number of games in the ranking")
	sections := flag.String("sections", "", "comma-separated sections: activity,trends,countries,overlap (defaults to all)")
	csvDir := flag.String("csv-dir", "", "also export CSV reports into this directory")
	xlsx := flag.String("xlsx", "", "also write an xlsx market report to this path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if *dir == "" {
		*dir = cfg.GetDatasetDir()
	}

	g, err := analytics.ParseGranularity(*granularity)
	if err != nil {
		logger.Error("Invalid granularity", slog.String("value", *granularity))
		os.Exit(1)
	}

	opts := services.DefaultDigestOptions()
	opts.TopN = *top
	opts.Granularity = g
	if *sections != "" {
		if err := applySections(&opts, *sections); err != nil {
			logger.Error("Invalid sections", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	criteria := buildCriteria(*tags, *genres, *yearMin, *yearMax, *soldMin, *reviewsMin)

	logger.Info("Building market digest",
		slog.String("dataset_dir", *dir),
		slog.String("granularity", g.String()),
		slog.Int("top", *top))

	// Batch runs carry a trace ID so their log lines correlate like requests.
	ctx := infrastructure.EnsureTraceID(context.Background())
	repo := store.NewWithLogger(*dir, logger)
	svc := services.NewAnalyticsServiceWithLogger(repo, logger)

	digest, err := svc.Digest(ctx, criteria, opts)
	if err != nil {
		logger.Error("Failed to build digest", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out == "" {
		fmt.Println(digest)
	} else {
		if err := os.WriteFile(*out, []byte(digest+"\n"), 0644); err != nil {
			logger.Error("Failed to write digest",
				slog.String("path", *out),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Digest written", slog.String("path", *out))
	}

	if *csvDir != "" {
		if err := exportCSV(ctx, svc, criteria, opts, *csvDir); err != nil {
			logger.Error("Failed to export CSV reports", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("CSV reports written", slog.String("dir", *csvDir))
	}

	if *xlsx != "" {
		if err := exportWorkbook(ctx, svc, criteria, opts, *xlsx); err != nil {
			logger.Error("Failed to write market report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Market report written", slog.String("path", *xlsx))
	}
}

// buildCriteria assembles the filter from the flag values. Zero-valued flags
// leave their bound unset.
func buildCriteria(tags, genres string, yearMin, yearMax int, soldMin, reviewsMin float64) analytics.Criteria {
	c := analytics.Criteria{
		TagsAny:   splitList(tags),
		GenresAny: splitList(genres),
	}
	if yearMin > 0 {
		c.YearMin = &yearMin
	}
	if yearMax > 0 {
		c.YearMax = &yearMax
	}
	if soldMin > 0 {
		c.SoldMin = &soldMin
	}
	if reviewsMin > 0 {
		c.ReviewsMin = &reviewsMin
	}
	return c
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// applySections disables every optional section, then re-enables the listed
// ones. An unknown section name is an error.
func applySections(opts *services.DigestOptions, sections string) error {
	opts.IncludeActivity = false
	opts.IncludeTrends = false
	opts.IncludeCountries = false
	opts.IncludeOverlap = false

	for _, name := range splitList(sections) {
		switch name {
		case "activity":
			opts.IncludeActivity = true
		case "trends":
			opts.IncludeTrends = true
		case "countries":
			opts.IncludeCountries = true
		case "overlap":
			opts.IncludeOverlap = true
		default:
			return fmt.Errorf("unknown section %q", name)
		}
	}
	return nil
}

// exportCSV writes the individual CSV reports next to the digest.
func exportCSV(ctx context.Context, svc *services.AnalyticsService, c analytics.Criteria, opts services.DigestOptions, dir string) error {
	reports := exporter.NewReportExporter(dir)

	top, err := svc.TopGames(ctx, c, opts.TopN, analytics.RankByRevenue)
	if err != nil {
		return err
	}
	if err := reports.ExportGames(top, "top_games.csv"); err != nil {
		return err
	}

	genres, err := svc.GenreRollup(ctx, c)
	if err != nil {
		return err
	}
	if err := reports.ExportCategoryRollup(genres, "genres.csv"); err != nil {
		return err
	}

	tags, err := svc.TagRollup(ctx, c)
	if err != nil {
		return err
	}
	if err := reports.ExportCategoryRollup(tags, "tags.csv"); err != nil {
		return err
	}

	trends, err := svc.Trends(ctx, c, opts.Granularity)
	if err != nil {
		return err
	}
	if err := reports.ExportTrends(trends, "trends.csv"); err != nil {
		return err
	}

	countries, err := svc.Countries(ctx, c, analytics.WeightByRevenue)
	if err != nil {
		return err
	}
	if err := reports.ExportCountries(countries, "countries.csv"); err != nil {
		return err
	}

	activity, err := svc.Activity(ctx, c)
	if err != nil {
		return err
	}
	if err := reports.ExportActivity(activity, "activity.csv"); err != nil {
		return err
	}

	overlap, err := svc.Overlap(ctx, c, opts.TopN, analytics.ByReachScore, 0.05)
	if err != nil {
		return err
	}
	return reports.ExportOverlap(overlap, "overlap.csv")
}

// exportWorkbook writes the combined xlsx market report.
func exportWorkbook(ctx context.Context, svc *services.AnalyticsService, c analytics.Criteria, opts services.DigestOptions, path string) error {
	top, err := svc.TopGames(ctx, c, opts.TopN, analytics.RankByRevenue)
	if err != nil {
		return err
	}
	genres, err := svc.GenreRollup(ctx, c)
	if err != nil {
		return err
	}
	trends, err := svc.Trends(ctx, c, opts.Granularity)
	if err != nil {
		return err
	}
	overlap, err := svc.Overlap(ctx, c, opts.TopN, analytics.ByReachScore, 0.05)
	if err != nil {
		return err
	}

	return exporter.WriteMarketReport(exporter.MarketReport{
		TopGames: top,
		Genres:   genres,
		Trends:   trends,
		Overlap:  overlap,
	}, path)
}
