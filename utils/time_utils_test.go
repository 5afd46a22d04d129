package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-14T09:15:00Z", time.Date(2024, 3, 14, 9, 15, 0, 0, time.UTC)},
		{"2024-03-14T09:15:00.25", time.Date(2024, 3, 14, 9, 15, 0, 250000000, loc)},
		{"2024-03-14T09:15:00", time.Date(2024, 3, 14, 9, 15, 0, 0, loc)},
		{"2024-03-14 09:15:00", time.Date(2024, 3, 14, 9, 15, 0, 0, loc)},
		{" 2024-03-14 ", time.Date(2024, 3, 14, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in, loc)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %s", tc.in, got)
	}

	_, err := ParseTimestamp("14/03/2024", loc)
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseDay("", time.UTC, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = ParseDay("2024-03-14", time.UTC, fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDay("2024-13-01", time.UTC, fallback)
	assert.Error(t, err)
}
