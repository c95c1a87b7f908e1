package analytics

import (
	"sort"
	"strings"
)

// maxCountryRows bounds the country rollup output; long tails of sub-percent
// markets add nothing to dashboards or digests.
const maxCountryRows = 30

// countryNames is the static display-name table for the markets the
// upstream API reports. Unknown codes fall back to the uppercased code.
var countryNames = map[string]string{
	"us": "United States",
	"cn": "China",
	"ru": "Russia",
	"de": "Germany",
	"gb": "United Kingdom",
	"fr": "France",
	"br": "Brazil",
	"kr": "South Korea",
	"jp": "Japan",
	"ca": "Canada",
	"au": "Australia",
	"pl": "Poland",
	"tr": "Turkey",
	"ua": "Ukraine",
	"nl": "Netherlands",
	"se": "Sweden",
	"mx": "Mexico",
	"ar": "Argentina",
	"it": "Italy",
	"es": "Spain",
	"in": "India",
	"vn": "Vietnam",
	"th": "Thailand",
	"id": "Indonesia",
	"sg": "Singapore",
}

// countryDisplayName decorates a country code with its human-readable name.
func countryDisplayName(code string) string {
	upper := strings.ToUpper(code)
	if name, ok := countryNames[strings.ToLower(code)]; ok {
		return name + " (" + upper + ")"
	}
	return upper
}

// WeightedCountryShare computes the weighted average player-share per
// country across records, descending by share and truncated to the top 30.
//
// A record with a zero or absent weight metric still participates with
// weight 1, so the weighting mode never silently drops records from the
// denominator. Records supplying no country data contribute nothing and are
// excluded from the total weight. An empty result means no record carried
// country data.
func WeightedCountryShare(records []GameRecord, weightBy WeightBy) []CountryShare {
	weighted := make(map[string]float64)
	var totalWeight float64

	for _, rec := range records {
		if len(rec.CountryShare) == 0 {
			continue
		}
		w := 1.0
		switch weightBy {
		case WeightByRevenue:
			if rec.Revenue > 0 {
				w = rec.Revenue
			}
		case WeightBySales:
			if rec.CopiesSold > 0 {
				w = rec.CopiesSold
			}
		}
		totalWeight += w
		for code, pct := range rec.CountryShare {
			weighted[code] += pct * w
		}
	}

	if totalWeight == 0 {
		return nil
	}

	out := make([]CountryShare, 0, len(weighted))
	for code, sum := range weighted {
		out = append(out, CountryShare{
			Code:        code,
			DisplayName: countryDisplayName(code),
			WeightedPct: sum / totalWeight,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightedPct != out[j].WeightedPct {
			return out[i].WeightedPct > out[j].WeightedPct
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > maxCountryRows {
		out = out[:maxCountryRows]
	}
	return out
}
