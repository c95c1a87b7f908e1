package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamelens/internal/services"
)

func TestBuildCriteria(t *testing.T) {
	c := buildCriteria("Roguelike, Co-op", "Action", 2020, 2023, 10000, 0)

	assert.Equal(t, []string{"Roguelike", "Co-op"}, c.TagsAny)
	assert.Equal(t, []string{"Action"}, c.GenresAny)
	require.NotNil(t, c.YearMin)
	assert.Equal(t, 2020, *c.YearMin)
	require.NotNil(t, c.YearMax)
	assert.Equal(t, 2023, *c.YearMax)
	require.NotNil(t, c.SoldMin)
	assert.Equal(t, 10000.0, *c.SoldMin)
	assert.Nil(t, c.ReviewsMin)
}

func TestBuildCriteriaEmpty(t *testing.T) {
	c := buildCriteria("", "", 0, 0, 0, 0)
	assert.True(t, c.IsZero())
}

func TestApplySections(t *testing.T) {
	opts := services.DefaultDigestOptions()
	require.NoError(t, applySections(&opts, "trends,overlap"))

	assert.False(t, opts.IncludeActivity)
	assert.True(t, opts.IncludeTrends)
	assert.False(t, opts.IncludeCountries)
	assert.True(t, opts.IncludeOverlap)
}

func TestApplySectionsUnknown(t *testing.T) {
	opts := services.DefaultDigestOptions()
	assert.Error(t, applySections(&opts, "trends,bogus"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b ,"))
}
