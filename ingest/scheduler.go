package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"salesdash/logging"
)

const (
	DefaultSchedule = "0 2 * * *"
	runTimeout      = 30 * time.Minute
)

type dayCollector interface {
	Collect(ctx context.Context, day time.Time) (Result, error)
}

// Scheduler collects the previous day's data on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	collector dayCollector
	loc       *time.Location
	now       func() time.Time
	logger    *logging.Logger
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	l *logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.WithError(err).Error(msg, keysAndValues...)
}

func NewScheduler(collector dayCollector, spec string, loc *time.Location, logger *logging.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if spec == "" {
		spec = DefaultSchedule
	}

	log := logger.WithComponent("scheduler")
	cl := cronLogger{l: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		collector: collector,
		loc:       loc,
		now:       time.Now,
		logger:    log,
	}
	if _, err := s.cron.AddFunc(spec, s.collectYesterday); err != nil {
		return nil, fmt.Errorf("invalid collection schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Collection scheduler started")
}

// Stop halts the schedule and waits for a running collection to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) collectYesterday() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := s.now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -1)
	if _, err := s.collector.Collect(ctx, day); err != nil {
		s.logger.WithError(err).Error("Scheduled data collection failed", "day", day.Format(time.DateOnly))
	}
}
