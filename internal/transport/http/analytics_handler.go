package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gamelens/internal/analytics"
	apierrors "gamelens/internal/errors"
	"gamelens/internal/infrastructure"
	customMiddleware "gamelens/internal/middleware"
	"gamelens/internal/services"
)

const (
	// defaultOverlapFloor discards overlap edges at or below this coefficient.
	defaultOverlapFloor = 0.05

	// maxTopParam bounds the top/min_count query parameters.
	maxTopParam = 1000

	minReleaseYear = 1970
	maxReleaseYear = 2100
)

// AnalyticsHandler handles market analytics HTTP requests
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *customMiddleware.QueryParamValidator
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "analytics_handler"),
		errorHandler: errorHandler,
		params:       customMiddleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/games", h.GetGames)
	r.Get("/games/{id}/history", h.GetGameHistory)
	r.Get("/rollups/genres", h.GetGenreRollup)
	r.Get("/rollups/tags", h.GetTagRollup)
	r.Get("/trends", h.GetTrends)
	r.Get("/countries", h.GetCountries)
	r.Get("/activity", h.GetActivity)
	r.Get("/overlap", h.GetOverlap)
	r.Get("/digest", h.GetDigest)
	r.Get("/vocab/tags", h.GetTagVocabulary)
	r.Get("/vocab/genres", h.GetGenreVocabulary)
	r.With(customMiddleware.ContentTypeValidator("application/json")).
		Post("/dataset/reload", h.ReloadDataset)

	return r
}

// criteriaFromQuery builds filter criteria from the shared query parameters.
// A malformed numeric bound is a caller error; the validator writes the
// field-level failure and the caller stops.
func (h *AnalyticsHandler) criteriaFromQuery(w http.ResponseWriter, r *http.Request) (analytics.Criteria, bool) {
	q := r.URL.Query()
	var c analytics.Criteria

	if tags := q.Get("tags"); tags != "" {
		c.TagsAny = splitList(tags)
	}
	if genres := q.Get("genres"); genres != "" {
		c.GenresAny = splitList(genres)
	}

	for _, bound := range []struct {
		param string
		dest  **int
	}{
		{"year_min", &c.YearMin},
		{"year_max", &c.YearMax},
	} {
		if q.Get(bound.param) == "" {
			continue
		}
		v, ok := h.params.ValidateInt(w, r, bound.param, minReleaseYear, maxReleaseYear, 0)
		if !ok {
			return c, false
		}
		*bound.dest = &v
	}

	for _, bound := range []struct {
		param string
		dest  **float64
	}{
		{"sold_min", &c.SoldMin},
		{"reviews_min", &c.ReviewsMin},
	} {
		raw := q.Get(bound.param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(bound.param, bound.param+" must be a number"))
			return c, false
		}
		*bound.dest = &v
	}

	return c, true
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetGames handles GET /api/games
func (h *AnalyticsHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	topN, ok := h.params.ValidateInt(w, r, "top", 0, maxTopParam, 0)
	if !ok {
		return
	}
	metric, err := analytics.ParseRankMetric(r.URL.Query().Get("rank_by"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("rank_by", err.Error()))
		return
	}

	games, err := h.service.TopGames(r.Context(), criteria, topN, metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   games,
		"count":  len(games),
	})
}

// GetGameHistory handles GET /api/games/{id}/history
func (h *AnalyticsHandler) GetGameHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Game id is required"))
		return
	}

	g, err := parseGranularityParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("granularity", err.Error()))
		return
	}

	series, err := h.service.GameHistory(r.Context(), id, g)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if series == nil {
		series = []analytics.PeriodMetrics{}
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
	})
}

// GetGenreRollup handles GET /api/rollups/genres
func (h *AnalyticsHandler) GetGenreRollup(w http.ResponseWriter, r *http.Request) {
	h.rollup(w, r, h.service.GenreRollup)
}

// GetTagRollup handles GET /api/rollups/tags
func (h *AnalyticsHandler) GetTagRollup(w http.ResponseWriter, r *http.Request) {
	h.rollup(w, r, h.service.TagRollup)
}

func (h *AnalyticsHandler) rollup(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryStats, error)) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	stats, err := fn(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
		"count":  len(stats),
	})
}

// GetTrends handles GET /api/trends
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	g, err := parseGranularityParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("granularity", err.Error()))
		return
	}

	trend, err := h.service.Trends(r.Context(), criteria, g)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":      "success",
		"granularity": g.String(),
		"data":        trend,
		"count":       len(trend),
	})
}

// GetCountries handles GET /api/countries
func (h *AnalyticsHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	choice, ok := h.params.ValidateEnum(w, r, "weight_by",
		[]string{"revenue", "sales", "equal"}, "revenue")
	if !ok {
		return
	}
	weightBy, err := analytics.ParseWeightBy(choice)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("weight_by", err.Error()))
		return
	}

	countries, err := h.service.Countries(r.Context(), criteria, weightBy)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"weight_by": weightBy.String(),
		"data":      countries,
		"count":     len(countries),
	})
}

// GetActivity handles GET /api/activity
func (h *AnalyticsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Activity(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"metrics": analytics.ActivityMetricNames(),
		"data":    summary,
	})
}

// GetOverlap handles GET /api/overlap
func (h *AnalyticsHandler) GetOverlap(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	topN, ok := h.params.ValidateInt(w, r, "top", 1, maxTopParam, 20)
	if !ok {
		return
	}

	sortBy, err := analytics.ParseSortKey(q.Get("sort"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sort", err.Error()))
		return
	}

	floor := defaultOverlapFloor
	if raw := q.Get("floor"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v >= 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("floor", "floor must be a number in [0, 1)"))
			return
		}
		floor = v
	}

	overlaps, err := h.service.Overlap(r.Context(), criteria, topN, sortBy, floor)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"sort":   sortBy.String(),
		"data":   overlaps,
		"count":  len(overlaps),
	})
}

// GetDigest handles GET /api/digest
func (h *AnalyticsHandler) GetDigest(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.criteriaFromQuery(w, r)
	if !ok {
		return
	}

	opts := services.DefaultDigestOptions()

	q := r.URL.Query()
	topN, ok := h.params.ValidateInt(w, r, "top", 1, maxTopParam, opts.TopN)
	if !ok {
		return
	}
	opts.TopN = topN
	g, err := parseGranularityParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("granularity", err.Error()))
		return
	}
	opts.Granularity = g

	if sections := q.Get("sections"); sections != "" {
		opts.IncludeActivity = false
		opts.IncludeTrends = false
		opts.IncludeCountries = false
		opts.IncludeOverlap = false
		for _, section := range splitList(sections) {
			switch section {
			case "activity":
				opts.IncludeActivity = true
			case "trends":
				opts.IncludeTrends = true
			case "countries":
				opts.IncludeCountries = true
			case "overlap":
				opts.IncludeOverlap = true
			default:
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sections",
					"sections must be a comma-separated list of: activity, trends, countries, overlap"))
				return
			}
		}
	}

	digest, err := h.service.Digest(r.Context(), criteria, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"digest": digest,
	})
}

// GetTagVocabulary handles GET /api/vocab/tags
func (h *AnalyticsHandler) GetTagVocabulary(w http.ResponseWriter, r *http.Request) {
	minCount, ok := h.params.ValidateInt(w, r, "min_count", 1, maxTopParam, 3)
	if !ok {
		return
	}

	tags, err := h.service.TagVocabulary(r.Context(), minCount)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   tags,
		"count":  len(tags),
	})
}

// GetGenreVocabulary handles GET /api/vocab/genres
func (h *AnalyticsHandler) GetGenreVocabulary(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GenreVocabulary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   genres,
		"count":  len(genres),
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *AnalyticsHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID))

	count, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"records": count,
	})
}

func parseGranularityParam(r *http.Request) (analytics.Granularity, error) {
	raw := r.URL.Query().Get("granularity")
	if raw == "" {
		return analytics.Yearly, nil
	}
	return analytics.ParseGranularity(raw)
}
