package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamelens/internal/analytics"
)

func TestBuildDigest(t *testing.T) {
	records := fixtureRecords()

	t.Run("all sections", func(t *testing.T) {
		out := BuildDigest(records, DefaultDigestOptions())
		assert.Contains(t, out, "## Overview (3 games)")
		assert.Contains(t, out, "## Player activity")
		assert.Contains(t, out, "## Yearly trend")
		assert.Contains(t, out, "## Player share by country")
		assert.Contains(t, out, "## Audience overlap")
		assert.Contains(t, out, "## Top 3 games by revenue")
		assert.Contains(t, out, "1. Roguelike Hit")
	})

	t.Run("sections disabled", func(t *testing.T) {
		out := BuildDigest(records, DigestOptions{TopN: 5})
		assert.Contains(t, out, "## Overview")
		assert.Contains(t, out, "## Top 3 games by revenue")
		assert.NotContains(t, out, "## Player activity")
		assert.NotContains(t, out, "trend")
		assert.NotContains(t, out, "country")
		assert.NotContains(t, out, "overlap")
	})

	t.Run("top-n bound", func(t *testing.T) {
		out := BuildDigest(records, DigestOptions{TopN: 1})
		assert.Contains(t, out, "## Top 1 games by revenue")
		assert.NotContains(t, out, "Quiet Strategy")
	})

	t.Run("empty selection", func(t *testing.T) {
		assert.Equal(t, "No data for the selected criteria.", BuildDigest(nil, DefaultDigestOptions()))
	})

	t.Run("overview numbers", func(t *testing.T) {
		out := BuildDigest(records, DigestOptions{TopN: 1})
		// Revenue 5,000,000 + 800,000; average score over positive scores only.
		assert.Contains(t, out, "Total revenue: $5,800,000")
		assert.Contains(t, out, "Avg review score: 88.0/100")
	})

	t.Run("market structure", func(t *testing.T) {
		out := BuildDigest(records, DigestOptions{TopN: 1})
		assert.Contains(t, out, "## Market structure")
		assert.Contains(t, out, "Price bands: Free: 3")
		assert.Contains(t, out, "Common tags: Free to Play (1), Indie (1), Roguelike (1), Turn-Based (1)")
		// No record carries a release timestamp.
		assert.NotContains(t, out, "Release pace")
	})

	t.Run("release pace", func(t *testing.T) {
		dated := fixtureRecords()
		dated[0].ReleaseDate = 1609459200000      // 2021-01
		dated[1].ReleaseDate = 1612137600000      // 2021-02
		dated[2].FirstReleaseDate = 1612224000000 // 2021-02
		out := BuildDigest(dated, DigestOptions{TopN: 1})
		assert.Contains(t, out, "Release pace: 3 dated releases over 2 months, busiest 2021-02 (2)")
	})

	t.Run("no trailing newline", func(t *testing.T) {
		out := BuildDigest(records, DefaultDigestOptions())
		assert.False(t, strings.HasSuffix(out, "\n"))
	})
}

func TestDigestAppliesCriteria(t *testing.T) {
	svc := NewAnalyticsService(&fixtureSource{records: fixtureRecords()})
	out, err := svc.Digest(context.Background(), analytics.Criteria{
		GenresAny: []string{"Strategy"},
	}, DigestOptions{TopN: 10})
	require.NoError(t, err)
	assert.Contains(t, out, "## Overview (1 games)")
	assert.Contains(t, out, "Quiet Strategy")
	assert.NotContains(t, out, "Roguelike Hit")
}
