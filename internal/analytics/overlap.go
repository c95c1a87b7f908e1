package analytics

import "sort"

// overlapAccumulator collects every edge referencing one external target.
type overlapAccumulator struct {
	name       string
	genres     []string
	linkSum    float64
	edgeCount  int
	copiesSold float64
	revenue    float64
	ccu        float64
}

// RankOverlap flattens every record's audience-overlap edges into a global
// ranked network of reach estimates.
//
// Edges at or below linkFloor are noise and are discarded. Surviving edges
// are grouped by target: the average link counts every edge (a target
// referenced with different link values from different sources contributes
// each value), while copies sold, revenue and CCU take the maximum observed
// across referencing edges, since different sources may carry stale
// snapshots of the same external title and the max avoids under-reporting.
//
// Ranking is two-stage: the top 2×topN targets by referencing count form the
// candidate set, which is then sorted by the requested key and truncated to
// topN. The breadth pre-filter keeps single-source outlier edges from
// dominating the final ranking under other sort keys; it is an
// approximation and does not guarantee the exact global top-N for every
// sort key.
func RankOverlap(records []GameRecord, topN int, sortBy SortKey, linkFloor float64) []OverlapSummary {
	groups := make(map[string]*overlapAccumulator)
	for _, rec := range records {
		for _, edge := range rec.AudienceOverlap {
			if edge.Link <= linkFloor {
				continue
			}
			acc, ok := groups[edge.TargetID]
			if !ok {
				acc = &overlapAccumulator{name: edge.TargetName, genres: edge.TargetGenres}
				groups[edge.TargetID] = acc
			}
			acc.linkSum += edge.Link
			// Counts edges, not distinct sources: a source listing the
			// same target twice counts twice.
			acc.edgeCount++
			if edge.TargetCopiesSold > acc.copiesSold {
				acc.copiesSold = edge.TargetCopiesSold
			}
			if edge.TargetRevenue > acc.revenue {
				acc.revenue = edge.TargetRevenue
			}
			if edge.TargetCCU > acc.ccu {
				acc.ccu = edge.TargetCCU
			}
		}
	}
	if len(groups) == 0 {
		return nil
	}

	total := len(records)
	summaries := make([]OverlapSummary, 0, len(groups))
	for id, acc := range groups {
		s := OverlapSummary{
			TargetID:         id,
			TargetName:       acc.name,
			ReferencingCount: acc.edgeCount,
			AvgLink:          acc.linkSum / float64(acc.edgeCount),
			MaxCopiesSold:    acc.copiesSold,
			MaxRevenue:       acc.revenue,
			MaxCCU:           acc.ccu,
			TargetGenres:     acc.genres,
		}
		s.ReachScore = s.AvgLink * s.MaxCopiesSold
		if total > 0 {
			s.OverlapBreadthPct = float64(s.ReferencingCount) / float64(total) * 100
		}
		summaries = append(summaries, s)
	}

	// Candidate pre-filter by breadth.
	sortSummaries(summaries, ByReferencingCount)
	if limit := 2 * topN; topN > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}

	sortSummaries(summaries, sortBy)
	if topN > 0 && len(summaries) > topN {
		summaries = summaries[:topN]
	}
	return summaries
}

func sortSummaries(summaries []OverlapSummary, key SortKey) {
	value := overlapSortValue(key)
	sort.SliceStable(summaries, func(i, j int) bool {
		vi, vj := value(summaries[i]), value(summaries[j])
		if vi != vj {
			return vi > vj
		}
		return summaries[i].TargetID < summaries[j].TargetID
	})
}

// overlapSortValue maps each sort key to its comparator field. Keeping the
// mapping exhaustive here means an unknown key cannot silently reorder.
func overlapSortValue(key SortKey) func(OverlapSummary) float64 {
	switch key {
	case ByAvgLink:
		return func(s OverlapSummary) float64 { return s.AvgLink }
	case ByReferencingCount:
		return func(s OverlapSummary) float64 { return float64(s.ReferencingCount) }
	case ByCopiesSold:
		return func(s OverlapSummary) float64 { return s.MaxCopiesSold }
	default:
		return func(s OverlapSummary) float64 { return s.ReachScore }
	}
}
