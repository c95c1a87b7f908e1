package analytics

// Criteria is a combinable predicate set over a record collection. Nil
// fields impose no constraint; set fields combine with AND semantics, while
// the values inside TagsAny/GenresAny match with OR semantics.
type Criteria struct {
	TagsAny    []string `json:"tags_any,omitempty"`
	GenresAny  []string `json:"genres_any,omitempty"`
	YearMin    *int     `json:"year_min,omitempty"`
	YearMax    *int     `json:"year_max,omitempty"`
	SoldMin    *float64 `json:"sold_min,omitempty"`
	ReviewsMin *float64 `json:"reviews_min,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return len(c.TagsAny) == 0 && len(c.GenresAny) == 0 &&
		c.YearMin == nil && c.YearMax == nil &&
		c.SoldMin == nil && c.ReviewsMin == nil
}

// Filter returns the order-preserving subset of records matching every set
// criterion. It is a pure function: records are not mutated and the result
// shares the input's backing elements.
func Filter(records []GameRecord, c Criteria) []GameRecord {
	if c.IsZero() {
		return records
	}
	out := make([]GameRecord, 0, len(records))
	for _, rec := range records {
		if matches(rec, c) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec GameRecord, c Criteria) bool {
	if len(c.TagsAny) > 0 && !anyOverlap(rec.Tags, c.TagsAny) {
		return false
	}
	if len(c.GenresAny) > 0 && !anyOverlap(rec.Genres, c.GenresAny) {
		return false
	}
	if c.YearMin != nil || c.YearMax != nil {
		// A year bound excludes records with no derivable release year.
		year, ok := rec.ReleaseYear()
		if !ok {
			return false
		}
		if c.YearMin != nil && year < *c.YearMin {
			return false
		}
		if c.YearMax != nil && year > *c.YearMax {
			return false
		}
	}
	if c.SoldMin != nil && rec.CopiesSold < *c.SoldMin {
		return false
	}
	if c.ReviewsMin != nil && rec.ReviewsCount < *c.ReviewsMin {
		return false
	}
	return true
}

func anyOverlap(have, want []string) bool {
	if len(have) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}
	for _, v := range want {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
