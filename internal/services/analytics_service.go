package services

import (
	"context"
	"fmt"
	"log/slog"

	"gamelens/internal/analytics"
)

// RecordSource provides normalized game records. *store.Repository satisfies
// it; tests supply fixtures directly.
type RecordSource interface {
	All(ctx context.Context) ([]analytics.GameRecord, error)
	Reload(ctx context.Context) ([]analytics.GameRecord, error)
}

// AnalyticsService orchestrates the record source and the aggregation
// components. All methods apply the filter criteria before aggregating, so
// every surface reports over the same subset.
type AnalyticsService struct {
	source RecordSource
	logger *slog.Logger
}

// NewAnalyticsService creates an analytics service using the default logger.
func NewAnalyticsService(source RecordSource) *AnalyticsService {
	return NewAnalyticsServiceWithLogger(source, slog.Default())
}

// NewAnalyticsServiceWithLogger creates an analytics service with a specific
// logger.
func NewAnalyticsServiceWithLogger(source RecordSource, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{source: source, logger: logger}
}

// filtered loads the dataset and applies the criteria.
func (s *AnalyticsService) filtered(ctx context.Context, c analytics.Criteria) ([]analytics.GameRecord, error) {
	records, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if c.IsZero() {
		return records, nil
	}
	subset := analytics.Filter(records, c)
	s.logger.Debug("criteria applied",
		slog.Int("total", len(records)),
		slog.Int("matched", len(subset)))
	return subset, nil
}

// Games returns the filtered records.
func (s *AnalyticsService) Games(ctx context.Context, c analytics.Criteria) ([]analytics.GameRecord, error) {
	return s.filtered(ctx, c)
}

// GenreRollup summarizes the filtered records per genre.
func (s *AnalyticsService) GenreRollup(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryStats, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.GenreRollup(records), nil
}

// TagRollup summarizes the filtered records per tag.
func (s *AnalyticsService) TagRollup(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryStats, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.TagRollup(records), nil
}

// Trends returns the cross-record period activity at the given granularity.
func (s *AnalyticsService) Trends(ctx context.Context, c analytics.Criteria, g analytics.Granularity) ([]analytics.PeriodStats, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.TemporalRollup(records, g), nil
}

// Countries returns the weighted country share of the filtered records.
func (s *AnalyticsService) Countries(ctx context.Context, c analytics.Criteria, weightBy analytics.WeightBy) ([]analytics.CountryShare, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.WeightedCountryShare(records, weightBy), nil
}

// Activity returns per-metric engagement statistics for the filtered
// records.
func (s *AnalyticsService) Activity(ctx context.Context, c analytics.Criteria) (map[string]analytics.MetricStats, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.ActivitySummary(records), nil
}

// Overlap ranks the audience-overlap network of the filtered records.
func (s *AnalyticsService) Overlap(ctx context.Context, c analytics.Criteria, topN int, sortBy analytics.SortKey, linkFloor float64) ([]analytics.OverlapSummary, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.RankOverlap(records, topN, sortBy, linkFloor), nil
}

// TopGames ranks the filtered records by the chosen metric.
func (s *AnalyticsService) TopGames(ctx context.Context, c analytics.Criteria, n int, metric analytics.RankMetric) ([]analytics.GameRecord, error) {
	records, err := s.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.TopGames(records, n, metric), nil
}

// TagVocabulary lists tags with at least minCount occurrences across the
// whole dataset, unfiltered, for building filter inputs.
func (s *AnalyticsService) TagVocabulary(ctx context.Context, minCount int) ([]string, error) {
	records, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return analytics.TagVocabulary(records, minCount), nil
}

// GenreVocabulary lists every genre across the whole dataset, unfiltered.
func (s *AnalyticsService) GenreVocabulary(ctx context.Context) ([]string, error) {
	records, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return analytics.GenreVocabulary(records), nil
}

// GameHistory returns the per-period series for one title, matched by ID.
// An unknown ID yields an empty series.
func (s *AnalyticsService) GameHistory(ctx context.Context, id string, g analytics.Granularity) ([]analytics.PeriodMetrics, error) {
	records, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return analytics.GameHistory(rec, g), nil
		}
	}
	return nil, nil
}

// Reload refreshes the dataset from disk and reports the new record count.
func (s *AnalyticsService) Reload(ctx context.Context) (int, error) {
	records, err := s.source.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reload records: %w", err)
	}
	s.logger.Info("dataset reloaded", slog.Int("records", len(records)))
	return len(records), nil
}
