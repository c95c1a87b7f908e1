package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the calendar bucket used when collapsing a history
// into periods.
type Granularity int

const (
	// Yearly buckets snapshots by calendar year
	Yearly Granularity = iota
	// Monthly buckets snapshots by calendar year and month
	Monthly
)

// String returns the string representation of the granularity
func (g Granularity) String() string {
	switch g {
	case Yearly:
		return "yearly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseGranularity converts a string flag to a Granularity.
// Unknown values are a caller error, not a data quality issue.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "yearly", "year":
		return Yearly, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("invalid granularity %q: must be yearly or monthly", s)
	}
}

// Period is a calendar bucket key: "2006" for yearly granularity,
// "2006-01" for monthly. Lexical order equals chronological order.
type Period string

// periodOf computes the period key for a millisecond timestamp.
func periodOf(timestampMs int64, g Granularity) Period {
	t := time.UnixMilli(timestampMs).UTC()
	if g == Monthly {
		return Period(t.Format("2006-01"))
	}
	return Period(t.Format("2006"))
}

// GameRecord is the canonical, fully-defaulted form of one title's analytics
// snapshot. All numeric fields default to 0 when the source omitted them;
// collections are never nil-vs-empty significant. Records are read-only to
// every component in this package.
type GameRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Millisecond epoch timestamps; 0 means absent.
	ReleaseDate      int64 `json:"release_date"`
	FirstReleaseDate int64 `json:"first_release_date"`

	Genres []string `json:"genres"`
	Tags   []string `json:"tags"`

	Price            float64 `json:"price"`
	ReviewScore      float64 `json:"review_score"`
	ReviewsCount     float64 `json:"reviews_count"`
	CopiesSold       float64 `json:"copies_sold"`
	Revenue          float64 `json:"revenue"`
	Owners           float64 `json:"owners"`
	Followers        float64 `json:"followers"`
	Wishlists        float64 `json:"wishlists"`
	CCU              float64 `json:"ccu"`
	AvgPlaytimeHours float64 `json:"avg_playtime_hours"`
	SteamPercent     float64 `json:"steam_percent"`

	// CountryShare maps country code to percentage of players. Values are
	// not guaranteed to sum to 100.
	CountryShare map[string]float64 `json:"country_share,omitempty"`

	// PlaytimeDistribution maps bucket label to percentage of players.
	PlaytimeDistribution map[string]float64 `json:"playtime_distribution,omitempty"`

	// History is an unordered sequence of cumulative snapshots. Multiple
	// snapshots may share a calendar period; only the latest one within a
	// period is authoritative.
	History []HistorySnapshot `json:"history,omitempty"`

	AudienceOverlap []OverlapEdge `json:"audience_overlap,omitempty"`
}

// ReleaseYear derives the calendar year from the release timestamp,
// preferring ReleaseDate over FirstReleaseDate. The second return value is
// false when neither timestamp is present.
func (g GameRecord) ReleaseYear() (int, bool) {
	ts := g.ReleaseDate
	if ts == 0 {
		ts = g.FirstReleaseDate
	}
	if ts == 0 {
		return 0, false
	}
	return time.Unix(ts/1000, 0).UTC().Year(), true
}

// HistorySnapshot is one point of a title's cumulative time series.
// Sales and Revenue are running totals at the snapshot time; the remaining
// fields are point-in-time observations.
type HistorySnapshot struct {
	TimestampMs   int64   `json:"timestamp_ms"`
	Sales         float64 `json:"sales"`
	Revenue       float64 `json:"revenue"`
	CCU           float64 `json:"ccu"`
	Score         float64 `json:"score"`
	PlaytimeHours float64 `json:"playtime_hours"`
	Price         float64 `json:"price"`
	Followers     float64 `json:"followers"`
	Wishlists     float64 `json:"wishlists"`
	ReviewsCount  float64 `json:"reviews_count"`
}

// OverlapEdge is one shared-audience relationship from a source record to an
// external title. Link is the third-party overlap coefficient, nominally in
// [0,1] but only meaningful above a small noise floor.
type OverlapEdge struct {
	TargetID         string   `json:"target_id"`
	TargetName       string   `json:"target_name"`
	Link             float64  `json:"link"`
	TargetGenres     []string `json:"target_genres,omitempty"`
	TargetCopiesSold float64  `json:"target_copies_sold"`
	TargetRevenue    float64  `json:"target_revenue"`
	TargetCCU        float64  `json:"target_ccu"`
}

// PeriodMetrics is the increment calculator's output for one period.
// SalesInc and RevenueInc are derived period-over-period deltas, clamped at
// zero; Sales and Revenue carry the raw cumulative values the deltas were
// derived from. The remaining fields are copied from the winning snapshot.
type PeriodMetrics struct {
	Period        Period  `json:"period"`
	SalesInc      float64 `json:"sales_inc"`
	RevenueInc    float64 `json:"revenue_inc"`
	Sales         float64 `json:"cumulative_sales"`
	Revenue       float64 `json:"cumulative_revenue"`
	CCU           float64 `json:"ccu"`
	Score         float64 `json:"score"`
	PlaytimeHours float64 `json:"playtime_hours"`
	Price         float64 `json:"price"`
	Followers     float64 `json:"followers"`
	Wishlists     float64 `json:"wishlists"`
	ReviewsCount  float64 `json:"reviews_count"`
}

// CategoryStats summarizes one genre or tag group.
type CategoryStats struct {
	Category       string  `json:"category"`
	GameCount      int     `json:"game_count"`
	AvgRevenue     float64 `json:"avg_revenue"`
	AvgCopiesSold  float64 `json:"avg_copies_sold"`
	AvgReviewScore float64 `json:"avg_review_score"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// PeriodStats is the cross-record temporal rollup for one period.
// GameCount counts only records with positive sales activity in the period.
type PeriodStats struct {
	Period     Period  `json:"period"`
	SalesInc   float64 `json:"sales_inc"`
	RevenueInc float64 `json:"revenue_inc"`
	GameCount  int     `json:"game_count"`
	AvgScore   float64 `json:"avg_score"`
}

// CountryShare is one country's weighted player-share percentage.
// DisplayName is "Name (CC)", falling back to the uppercased code when the
// country is not in the static name table.
type CountryShare struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	WeightedPct float64 `json:"weighted_pct"`
}

// MetricStats summarizes the positive-valued subset of one engagement
// metric. A metric with no positive observations yields the zero struct.
type MetricStats struct {
	Avg    float64 `json:"avg"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// OverlapSummary is one ranked audience-overlap target.
type OverlapSummary struct {
	TargetID          string   `json:"target_id"`
	TargetName        string   `json:"target_name"`
	ReferencingCount  int      `json:"referencing_count"`
	OverlapBreadthPct float64  `json:"overlap_breadth_pct"`
	AvgLink           float64  `json:"avg_link"`
	MaxCopiesSold     float64  `json:"max_copies_sold"`
	MaxRevenue        float64  `json:"max_revenue"`
	MaxCCU            float64  `json:"max_ccu"`
	ReachScore        float64  `json:"reach_score"`
	TargetGenres      []string `json:"target_genres,omitempty"`
}

// SortKey selects the final ordering of the overlap ranking.
type SortKey int

const (
	// ByReachScore orders by estimated reachable audience size
	ByReachScore SortKey = iota
	// ByAvgLink orders by mean overlap coefficient
	ByAvgLink
	// ByReferencingCount orders by how many source records link the target
	ByReferencingCount
	// ByCopiesSold orders by the target's observed copies sold
	ByCopiesSold
)

// String returns the string representation of the sort key
func (k SortKey) String() string {
	switch k {
	case ByReachScore:
		return "reach_score"
	case ByAvgLink:
		return "avg_link"
	case ByReferencingCount:
		return "referencing_count"
	case ByCopiesSold:
		return "copies_sold"
	default:
		return "unknown"
	}
}

// ParseSortKey converts a string flag to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "reach_score", "":
		return ByReachScore, nil
	case "avg_link":
		return ByAvgLink, nil
	case "referencing_count", "overlap_game_count":
		return ByReferencingCount, nil
	case "copies_sold":
		return ByCopiesSold, nil
	default:
		return 0, fmt.Errorf("invalid overlap sort key %q", s)
	}
}

// WeightBy selects the per-record weight for the country rollup.
type WeightBy int

const (
	// WeightByRevenue weights each record by its revenue
	WeightByRevenue WeightBy = iota
	// WeightBySales weights each record by its copies sold
	WeightBySales
	// WeightEqual weights every record equally
	WeightEqual
)

// String returns the string representation of the weighting mode
func (w WeightBy) String() string {
	switch w {
	case WeightByRevenue:
		return "revenue"
	case WeightBySales:
		return "sales"
	case WeightEqual:
		return "equal"
	default:
		return "unknown"
	}
}

// ParseWeightBy converts a string flag to a WeightBy.
func ParseWeightBy(s string) (WeightBy, error) {
	switch s {
	case "revenue", "":
		return WeightByRevenue, nil
	case "sales":
		return WeightBySales, nil
	case "equal":
		return WeightEqual, nil
	default:
		return 0, fmt.Errorf("invalid weight mode %q: must be revenue, sales or equal", s)
	}
}
