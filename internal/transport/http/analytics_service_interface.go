package http

import (
	"context"

	"gamelens/internal/analytics"
	"gamelens/internal/services"
)

// AnalyticsServiceInterface defines the interface for analytics operations
type AnalyticsServiceInterface interface {
	Games(ctx context.Context, c analytics.Criteria) ([]analytics.GameRecord, error)
	GenreRollup(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryStats, error)
	TagRollup(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryStats, error)
	Trends(ctx context.Context, c analytics.Criteria, g analytics.Granularity) ([]analytics.PeriodStats, error)
	Countries(ctx context.Context, c analytics.Criteria, weightBy analytics.WeightBy) ([]analytics.CountryShare, error)
	Activity(ctx context.Context, c analytics.Criteria) (map[string]analytics.MetricStats, error)
	Overlap(ctx context.Context, c analytics.Criteria, topN int, sortBy analytics.SortKey, linkFloor float64) ([]analytics.OverlapSummary, error)
	TopGames(ctx context.Context, c analytics.Criteria, n int, metric analytics.RankMetric) ([]analytics.GameRecord, error)
	TagVocabulary(ctx context.Context, minCount int) ([]string, error)
	GenreVocabulary(ctx context.Context) ([]string, error)
	GameHistory(ctx context.Context, id string, g analytics.Granularity) ([]analytics.PeriodMetrics, error)
	Digest(ctx context.Context, c analytics.Criteria, opts services.DigestOptions) (string, error)
	Reload(ctx context.Context) (int, error)
}
