package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/logging"
)

type recordingCollector struct {
	days []time.Time
	err  error
}

func (r *recordingCollector) Collect(ctx context.Context, day time.Time) (Result, error) {
	r.days = append(r.days, day)
	return Result{}, r.err
}

func TestNewScheduler_RejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(&recordingCollector{}, "every day at two", time.UTC, logging.Discard())
	assert.Error(t, err)
}

func TestScheduler_CollectsPreviousDay(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*3600)
	rc := &recordingCollector{}
	s, err := NewScheduler(rc, "", loc, logging.Discard())
	require.NoError(t, err)
	// 01:30 UTC on Mar 15 is still Mar 14 at UTC-6.
	s.now = func() time.Time { return time.Date(2024, 3, 15, 1, 30, 0, 0, time.UTC) }

	s.collectYesterday()

	require.Len(t, rc.days, 1)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, loc), rc.days[0])
}

func TestScheduler_FailureIsLogged(t *testing.T) {
	rc := &recordingCollector{err: errors.New("vendor down")}
	s, err := NewScheduler(rc, DefaultSchedule, time.UTC, logging.Discard())
	require.NoError(t, err)

	assert.NotPanics(t, s.collectYesterday)
	assert.Len(t, rc.days, 1)

	s.Start()
	s.Stop(context.Background())
}
