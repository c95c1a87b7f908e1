package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeRecord canonicalizes one raw document from the upstream analytics
// API into a GameRecord. Every optional field is coerced to its documented
// default; NaN, null and empty values never survive into the result.
// Structured fields that arrive pre-serialized as JSON strings (columnar
// round-trips flatten them) are parsed back; a parse failure keeps the field
// empty rather than failing. The function never returns an error and is
// idempotent over its own output.
func NormalizeRecord(raw map[string]any) GameRecord {
	rec := GameRecord{
		ID:               lookupID(raw),
		Name:             lookupString(raw, "name"),
		ReleaseDate:      lookupTimestamp(raw, "releaseDate", "release_date"),
		FirstReleaseDate: lookupTimestamp(raw, "firstReleaseDate", "first_release_date"),
		Genres:           lookupStrings(raw, "genres"),
		Tags:             lookupStrings(raw, "tags"),
		Price:            lookupNumber(raw, "price"),
		ReviewScore:      lookupNumber(raw, "reviewScore", "review_score"),
		ReviewsCount:     lookupNumber(raw, "reviews", "reviews_count"),
		CopiesSold:       lookupNumber(raw, "copiesSold", "copies_sold"),
		Revenue:          lookupNumber(raw, "revenue"),
		Owners:           lookupNumber(raw, "owners"),
		Followers:        lookupNumber(raw, "followers"),
		Wishlists:        lookupNumber(raw, "wishlists"),
		CCU:              lookupNumber(raw, "players", "ccu"),
		AvgPlaytimeHours: lookupNumber(raw, "avgPlaytime", "avg_playtime_hours"),
		SteamPercent:     lookupNumber(raw, "steamPercent", "steam_percent"),
		CountryShare:     lookupShareMap(raw, "countryData", "country_share"),
	}

	rec.PlaytimeDistribution = normalizePlaytime(raw)
	rec.History = normalizeHistory(structured(lookup(raw, "history")))
	rec.AudienceOverlap = normalizeOverlap(structured(lookup(raw, "audienceOverlap", "audience_overlap")))

	return rec
}

func lookup(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// structured resolves a value that may arrive either as a native structure
// or as a JSON-encoded string. Anything unparseable passes through verbatim.
func structured(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	if s[0] != '[' && s[0] != '{' {
		return v
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return v
	}
	switch parsed.(type) {
	case []any, map[string]any:
		return parsed
	}
	return v
}

// lookupID extracts the stable identifier, which the upstream API reports as
// a numeric steamId but callers treat as opaque.
func lookupID(raw map[string]any) string {
	v := lookup(raw, "steamId", "steam_id", "id")
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if math.IsNaN(id) {
			return ""
		}
		return strconv.FormatInt(int64(id), 10)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}

func lookupString(raw map[string]any, keys ...string) string {
	if s, ok := lookup(raw, keys...).(string); ok {
		return s
	}
	return ""
}

func lookupNumber(raw map[string]any, keys ...string) float64 {
	return toNumber(lookup(raw, keys...))
}

// toNumber coerces any scalar to float64; NaN, null and non-numerics
// normalize to 0.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return toNumber(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return toNumber(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return toNumber(f)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func lookupTimestamp(raw map[string]any, keys ...string) int64 {
	return int64(lookupNumber(raw, keys...))
}

func lookupStrings(raw map[string]any, keys ...string) []string {
	v := structured(lookup(raw, keys...))
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func lookupShareMap(raw map[string]any, keys ...string) map[string]float64 {
	return toShareMap(structured(lookup(raw, keys...)))
}

func toShareMap(v any) map[string]float64 {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, val := range m {
		out[k] = toNumber(val)
	}
	return out
}

// normalizePlaytime accepts either the upstream playtimeData envelope
// (distribution plus a median scalar) or a flat bucket map.
func normalizePlaytime(raw map[string]any) map[string]float64 {
	v := structured(lookup(raw, "playtimeData", "playtime_distribution"))
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if dist, ok := m["distribution"]; ok {
		return toShareMap(structured(dist))
	}
	return toShareMap(m)
}

func normalizeHistory(v any) []HistorySnapshot {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]HistorySnapshot, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, HistorySnapshot{
			TimestampMs:   int64(toNumber(lookup(m, "timeStamp", "timestamp_ms"))),
			Sales:         toNumber(lookup(m, "sales")),
			Revenue:       toNumber(lookup(m, "revenue")),
			CCU:           toNumber(lookup(m, "players", "ccu")),
			Score:         toNumber(lookup(m, "score")),
			PlaytimeHours: toNumber(lookup(m, "avgPlaytime", "playtime_hours")),
			Price:         toNumber(lookup(m, "price")),
			Followers:     toNumber(lookup(m, "followers")),
			Wishlists:     toNumber(lookup(m, "wishlists")),
			ReviewsCount:  toNumber(lookup(m, "reviews", "reviews_count")),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeOverlap(v any) []OverlapEdge {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]OverlapEdge, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, OverlapEdge{
			TargetID:         lookupID(m),
			TargetName:       lookupString(m, "name", "target_name"),
			Link:             toNumber(lookup(m, "link")),
			TargetGenres:     lookupStrings(m, "genres", "target_genres"),
			TargetCopiesSold: toNumber(lookup(m, "copiesSold", "target_copies_sold")),
			TargetRevenue:    toNumber(lookup(m, "revenue", "target_revenue")),
			TargetCCU:        toNumber(lookup(m, "players", "target_ccu")),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
