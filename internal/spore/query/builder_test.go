package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sporemap/internal/spore/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }
func lptr(v int) *int         { return &v }

func TestBuildNoFilters(t *testing.T) {
	data, count := Build(models.GeoFilters{})

	assert.Equal(t, "SELECT id, lat, lng, message, cookie_id, created_at FROM spores ORDER BY id ASC", data.SQL)
	assert.Empty(t, data.Args)
	assert.Equal(t, "SELECT COUNT(*) FROM spores", count.SQL)
	assert.Empty(t, count.Args)
}

func TestBuildFullBoundingBox(t *testing.T) {
	f := models.GeoFilters{
		MinLat: fptr(-34.0),
		MaxLat: fptr(-33.8),
		MinLng: fptr(18.3),
		MaxLng: fptr(18.5),
	}

	data, count := Build(f)

	assert.Equal(t,
		"SELECT id, lat, lng, message, cookie_id, created_at FROM spores"+
			" WHERE lat >= $1 AND lat <= $2 AND lng >= $3 AND lng <= $4 ORDER BY id ASC",
		data.SQL)
	assert.Equal(t, []any{-34.0, -33.8, 18.3, 18.5}, data.Args)

	assert.Equal(t, "SELECT COUNT(*) FROM spores WHERE lat >= $1 AND lat <= $2 AND lng >= $3 AND lng <= $4", count.SQL)
	assert.Equal(t, []any{-34.0, -33.8, 18.3, 18.5}, count.Args)
}

func TestBuildPartialBox(t *testing.T) {
	// A single bound is a valid filter; placeholders renumber from $1.
	data, count := Build(models.GeoFilters{MaxLng: fptr(18.5)})

	assert.Equal(t,
		"SELECT id, lat, lng, message, cookie_id, created_at FROM spores WHERE lng <= $1 ORDER BY id ASC",
		data.SQL)
	assert.Equal(t, []any{18.5}, data.Args)
	assert.Equal(t, "SELECT COUNT(*) FROM spores WHERE lng <= $1", count.SQL)
}

func TestBuildInvertedBoxPassesThrough(t *testing.T) {
	// The builder does not validate box consistency; it emits what it is
	// given and the query legitimately matches nothing.
	data, _ := Build(models.GeoFilters{MinLat: fptr(10), MaxLat: fptr(-10)})

	assert.Contains(t, data.SQL, "lat >= $1 AND lat <= $2")
	assert.Equal(t, []any{10.0, -10.0}, data.Args)
}

func TestBuildCursorOnlyOnDataQuery(t *testing.T) {
	data, count := Build(models.GeoFilters{
		MinLat: fptr(-34.0),
		Cursor: iptr(42),
	})

	assert.Equal(t,
		"SELECT id, lat, lng, message, cookie_id, created_at FROM spores WHERE lat >= $1 AND id > $2 ORDER BY id ASC",
		data.SQL)
	assert.Equal(t, []any{-34.0, int64(42)}, data.Args)

	assert.Equal(t, "SELECT COUNT(*) FROM spores WHERE lat >= $1", count.SQL)
	assert.Equal(t, []any{-34.0}, count.Args)
}

func TestBuildLimit(t *testing.T) {
	data, count := Build(models.GeoFilters{Limit: lptr(50)})

	require.Equal(t,
		"SELECT id, lat, lng, message, cookie_id, created_at FROM spores ORDER BY id ASC LIMIT $1",
		data.SQL)
	assert.Equal(t, []any{50}, data.Args)

	assert.Equal(t, "SELECT COUNT(*) FROM spores", count.SQL)
	assert.Empty(t, count.Args)
}

func TestBuildCursorAndLimitTogether(t *testing.T) {
	data, count := Build(models.GeoFilters{
		MinLat: fptr(-34.0),
		MaxLat: fptr(-33.8),
		Cursor: iptr(100),
		Limit:  lptr(25),
	})

	assert.Equal(t,
		"SELECT id, lat, lng, message, cookie_id, created_at FROM spores"+
			" WHERE lat >= $1 AND lat <= $2 AND id > $3 ORDER BY id ASC LIMIT $4",
		data.SQL)
	assert.Equal(t, []any{-34.0, -33.8, int64(100), 25}, data.Args)

	assert.Equal(t, "SELECT COUNT(*) FROM spores WHERE lat >= $1 AND lat <= $2", count.SQL)
	assert.Equal(t, []any{-34.0, -33.8}, count.Args)
}

func TestBuildNonPositiveLimitIgnored(t *testing.T) {
	data, _ := Build(models.GeoFilters{Limit: lptr(0)})
	assert.NotContains(t, data.SQL, "LIMIT")
}
