package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		raw := map[string]any{
			"steamId":     float64(730),
			"name":        "Counter-Strike 2",
			"releaseDate": float64(1661990400000),
			"genres":      []any{"Action", "Free To Play"},
			"tags":        []any{"FPS", "Shooter"},
			"price":       14.99,
			"reviewScore": float64(88),
			"reviews":     float64(120000),
			"copiesSold":  float64(5000000),
			"revenue":     float64(42000000),
			"players":     float64(950000),
			"avgPlaytime": 110.5,
			"countryData": map[string]any{"us": 20.5, "ru": 15.0},
			"history": []any{
				map[string]any{"timeStamp": float64(1661990400000), "sales": float64(1000), "revenue": float64(9000), "players": float64(500)},
			},
			"audienceOverlap": []any{
				map[string]any{"steamId": float64(570), "name": "Dota 2", "link": 0.42, "genres": []any{"MOBA"}, "copiesSold": float64(3000000)},
			},
		}

		rec := NormalizeRecord(raw)
		assert.Equal(t, "730", rec.ID)
		assert.Equal(t, "Counter-Strike 2", rec.Name)
		assert.Equal(t, int64(1661990400000), rec.ReleaseDate)
		assert.Equal(t, []string{"Action", "Free To Play"}, rec.Genres)
		assert.Equal(t, 88.0, rec.ReviewScore)
		assert.Equal(t, 950000.0, rec.CCU)
		assert.Equal(t, map[string]float64{"us": 20.5, "ru": 15.0}, rec.CountryShare)
		require.Len(t, rec.History, 1)
		assert.Equal(t, 500.0, rec.History[0].CCU)
		require.Len(t, rec.AudienceOverlap, 1)
		assert.Equal(t, "570", rec.AudienceOverlap[0].TargetID)
		assert.Equal(t, 0.42, rec.AudienceOverlap[0].Link)
		assert.Equal(t, []string{"MOBA"}, rec.AudienceOverlap[0].TargetGenres)
	})

	t.Run("NaN and null normalize to defaults", func(t *testing.T) {
		raw := map[string]any{
			"steamId":     "123",
			"name":        "Broken",
			"price":       math.NaN(),
			"reviewScore": nil,
			"copiesSold":  math.Inf(1),
			"countryData": nil,
		}
		rec := NormalizeRecord(raw)
		assert.Equal(t, 0.0, rec.Price)
		assert.Equal(t, 0.0, rec.ReviewScore)
		assert.Equal(t, 0.0, rec.CopiesSold)
		assert.Nil(t, rec.CountryShare)
		assert.Nil(t, rec.History)
	})

	t.Run("JSON-encoded structured fields are parsed back", func(t *testing.T) {
		// Columnar storage round-trips nested structures as JSON strings.
		raw := map[string]any{
			"steamId":     float64(42),
			"name":        "Flattened",
			"genres":      `["Indie","Strategy"]`,
			"countryData": `{"us": 40.0, "kr": 12.5}`,
			"history":     `[{"timeStamp": 1609459200000, "sales": 100, "revenue": 500}]`,
		}
		rec := NormalizeRecord(raw)
		assert.Equal(t, []string{"Indie", "Strategy"}, rec.Genres)
		assert.Equal(t, map[string]float64{"us": 40.0, "kr": 12.5}, rec.CountryShare)
		require.Len(t, rec.History, 1)
		assert.Equal(t, 100.0, rec.History[0].Sales)
	})

	t.Run("malformed JSON string stays scalar and field stays empty", func(t *testing.T) {
		raw := map[string]any{
			"steamId":     float64(7),
			"name":        "Bad",
			"countryData": `{"us": 40.0`,
			"genres":      `[not json`,
		}
		rec := NormalizeRecord(raw)
		assert.Nil(t, rec.CountryShare)
		assert.Nil(t, rec.Genres)
	})

	t.Run("playtime distribution unwraps upstream envelope", func(t *testing.T) {
		raw := map[string]any{
			"steamId": float64(9),
			"playtimeData": map[string]any{
				"median":       12.5,
				"distribution": map[string]any{"0-1h": 10.0, "1-5h": 35.0},
			},
		}
		rec := NormalizeRecord(raw)
		assert.Equal(t, map[string]float64{"0-1h": 10.0, "1-5h": 35.0}, rec.PlaytimeDistribution)
	})

	t.Run("numeric strings coerce", func(t *testing.T) {
		raw := map[string]any{
			"steamId":    float64(1),
			"copiesSold": "25000",
			"price":      " 19.99 ",
		}
		rec := NormalizeRecord(raw)
		assert.Equal(t, 25000.0, rec.CopiesSold)
		assert.Equal(t, 19.99, rec.Price)
	})

	t.Run("idempotent over upstream-shaped maps", func(t *testing.T) {
		raw := map[string]any{
			"steamId":     float64(100),
			"name":        "Stable",
			"price":       9.99,
			"genres":      []any{"Indie"},
			"countryData": map[string]any{"us": 50.0},
		}
		once := NormalizeRecord(raw)
		again := NormalizeRecord(raw)
		assert.Equal(t, once, again)
	})
}
