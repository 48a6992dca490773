package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeString(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	t.Run("iso date", func(t *testing.T) {
		got, err := NormalizeString("2026-03-10", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, loc), got)
	})

	t.Run("rfc3339 truncates to local midnight", func(t *testing.T) {
		// 02:00 UTC on Mar 11 is still Mar 10 in São Paulo.
		got, err := NormalizeString("2026-03-11T02:00:00Z", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, loc), got)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := NormalizeString("10/03/2026", loc)
		assert.Error(t, err)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := NormalizeString("", loc)
		assert.Error(t, err)
	})
}

func TestNormalize(t *testing.T) {
	loc := time.UTC

	got, err := Normalize("2026-01-05", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", ISO(got))

	ts := time.Date(2026, time.January, 5, 18, 45, 0, 0, loc)
	got, err = Normalize(ts, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, loc), got)

	got, err = Normalize(&ts, loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", ISO(got))

	_, err = Normalize((*time.Time)(nil), loc)
	assert.Error(t, err)

	_, err = Normalize(42, loc)
	assert.Error(t, err)
}

func TestMonthDay(t *testing.T) {
	month, day, err := MonthDay("1990-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.March, month)
	assert.Equal(t, 10, day)

	_, _, err = MonthDay("03/10/1990")
	assert.Error(t, err)
}
