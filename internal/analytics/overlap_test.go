package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOverlap(t *testing.T) {
	records := []GameRecord{
		{ID: "1", AudienceOverlap: []OverlapEdge{
			{TargetID: "hit", TargetName: "Hit Game", Link: 0.2, TargetCopiesSold: 2_000_000, TargetRevenue: 10_000_000, TargetCCU: 5000},
			{TargetID: "niche", TargetName: "Niche Game", Link: 0.9, TargetCopiesSold: 10_000},
		}},
		{ID: "2", AudienceOverlap: []OverlapEdge{
			{TargetID: "hit", Link: 0.4, TargetCopiesSold: 1_500_000, TargetCCU: 8000},
		}},
		{ID: "3", AudienceOverlap: []OverlapEdge{
			{TargetID: "noise", Link: 0.01, TargetCopiesSold: 9_000_000},
		}},
	}

	out := RankOverlap(records, 10, ByReachScore, 0.05)
	require.Len(t, out, 2)

	hit := out[0]
	assert.Equal(t, "hit", hit.TargetID)
	assert.Equal(t, "Hit Game", hit.TargetName)
	assert.Equal(t, 2, hit.ReferencingCount)
	assert.InDelta(t, 0.3, hit.AvgLink, 1e-9)
	// Max across referencing edges, not the latest.
	assert.Equal(t, 2_000_000.0, hit.MaxCopiesSold)
	assert.Equal(t, 10_000_000.0, hit.MaxRevenue)
	assert.Equal(t, 8000.0, hit.MaxCCU)
	assert.InDelta(t, 600_000.0, hit.ReachScore, 1e-6)
	assert.InDelta(t, 2.0/3.0*100, hit.OverlapBreadthPct, 1e-9)

	// Edge at or below the floor never enters the ranking.
	for _, s := range out {
		assert.NotEqual(t, "noise", s.TargetID)
	}
}

func TestRankOverlapDuplicateEdgesCountTwice(t *testing.T) {
	records := []GameRecord{
		{ID: "1", AudienceOverlap: []OverlapEdge{
			{TargetID: "hit", Link: 0.2},
			{TargetID: "hit", Link: 0.4},
		}},
	}
	out := RankOverlap(records, 10, ByReachScore, 0.05)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ReferencingCount)
	assert.InDelta(t, 0.3, out[0].AvgLink, 1e-9)
}

func TestRankOverlapFloorIsExclusive(t *testing.T) {
	records := []GameRecord{
		{ID: "1", AudienceOverlap: []OverlapEdge{
			{TargetID: "at-floor", Link: 0.05},
			{TargetID: "above", Link: 0.051},
		}},
	}
	out := RankOverlap(records, 10, ByReachScore, 0.05)
	require.Len(t, out, 1)
	assert.Equal(t, "above", out[0].TargetID)
}

func TestRankOverlapSortKeys(t *testing.T) {
	records := []GameRecord{
		{ID: "1", AudienceOverlap: []OverlapEdge{
			{TargetID: "a", Link: 0.9, TargetCopiesSold: 100},
			{TargetID: "b", Link: 0.1, TargetCopiesSold: 5000},
		}},
		{ID: "2", AudienceOverlap: []OverlapEdge{
			{TargetID: "b", Link: 0.1, TargetCopiesSold: 5000},
		}},
	}

	tests := []struct {
		key   SortKey
		first string
	}{
		{ByAvgLink, "a"},
		{ByCopiesSold, "b"},
		{ByReferencingCount, "b"},
		{ByReachScore, "b"}, // 0.1*5000 > 0.9*100
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			out := RankOverlap(records, 10, tt.key, 0)
			require.NotEmpty(t, out)
			assert.Equal(t, tt.first, out[0].TargetID)
		})
	}
}

func TestRankOverlapCandidatePrefilter(t *testing.T) {
	// With topN=1 only the two broadest targets survive the pre-filter, so
	// a single-edge outlier with the highest avg link never reaches the
	// final sort.
	edge := func(target string, link float64) OverlapEdge {
		return OverlapEdge{TargetID: target, Link: link}
	}
	var records []GameRecord
	for i := 0; i < 5; i++ {
		records = append(records, GameRecord{
			ID:              fmt.Sprintf("broad-src-%d", i),
			AudienceOverlap: []OverlapEdge{edge("broad", 0.5)},
		})
	}
	for i := 0; i < 3; i++ {
		records = append(records, GameRecord{
			ID:              fmt.Sprintf("mid-src-%d", i),
			AudienceOverlap: []OverlapEdge{edge("mid", 0.6)},
		})
	}
	records = append(records, GameRecord{
		ID:              "outlier-src",
		AudienceOverlap: []OverlapEdge{edge("outlier", 0.99)},
	})

	out := RankOverlap(records, 1, ByAvgLink, 0)
	require.Len(t, out, 1)
	assert.Equal(t, "mid", out[0].TargetID)
}

func TestRankOverlapEmpty(t *testing.T) {
	assert.Nil(t, RankOverlap(nil, 10, ByReachScore, 0.05))
	assert.Nil(t, RankOverlap([]GameRecord{{ID: "1"}}, 10, ByReachScore, 0.05))
}
