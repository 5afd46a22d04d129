package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/logging"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	for _, url := range []string{"mysql://localhost/db", "salesdash.db", ""} {
		_, err := Open(context.Background(), url, logging.Discard())
		assert.ErrorIs(t, err, ErrUnsupportedDriver, url)
	}
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	store, err := Open(context.Background(), "sqlite://:memory:", logging.Discard())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(context.Background()))
	sales, err := store.DailySales(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestDayBounds_UsesDayLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	start, end := dayBounds(time.Date(2024, 3, 15, 1, 30, 0, 0, loc))

	assert.True(t, start.Equal(time.Date(2024, 3, 14, 21, 0, 0, 0, time.UTC)))
	assert.True(t, end.Equal(time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)))
}
