// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one maintenance step. Run reports how many items it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	tasks   []Task
	logger  *zap.Logger
	timeout time.Duration
}

// New registers tasks to run together on schedule, which accepts standard
// five-field cron expressions and descriptors such as "@every 1m".
func New(schedule string, logger *zap.Logger, tasks ...Task) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		tasks:   tasks,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce runs every task in order. A failing task does not stop the rest.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]int {
	out := make(map[string]int, len(s.tasks))
	for _, t := range s.tasks {
		n, err := t.Run(ctx)
		if err != nil {
			s.logger.Warn("maintenance task failed", zap.String("task", t.Name), zap.Error(err))
			continue
		}
		out[t.Name] = n
		if n > 0 {
			s.logger.Debug("maintenance task", zap.String("task", t.Name), zap.Int("removed", n))
		}
	}
	return out
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running tick, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
