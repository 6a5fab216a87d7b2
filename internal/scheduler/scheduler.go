// Package scheduler fires the broadcast on a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job func(ctx context.Context)

// Scheduler runs one job on a cron schedule. Overlapping runs are not
// prevented: a slow run and the next tick may both be active.
type Scheduler struct {
	spec  string
	loc   *time.Location
	sched cron.Schedule
	job   Job
	log   *zap.Logger

	mu sync.Mutex
	c  *cron.Cron
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func New(spec, timezone string, job Job, log *zap.Logger) (*Scheduler, error) {
	spec = strings.TrimSpace(spec)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	loc := time.Local
	if tz := strings.TrimSpace(timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		loc = l
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{spec: spec, loc: loc, sched: sched, job: job, log: log}, nil
}

// Next reports the first activation strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t.In(s.loc))
}

// Start begins firing the job with ctx until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	c := cron.New(cron.WithParser(parser), cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() {
		s.log.Info("scheduled broadcast firing", zap.String("schedule", s.spec))
		s.job(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	s.c = c

	s.log.Info("scheduler started",
		zap.String("schedule", s.spec),
		zap.String("tz", s.loc.String()),
		zap.Time("next", s.Next(time.Now())))
	return nil
}

// Stop halts the schedule and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
