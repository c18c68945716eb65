package jobs

import (
	"context"
	"fmt"
	"time"

	"student_dashboard_go/services/refresh"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher accepts refresh requests
type Refresher interface {
	RequestRefresh(ctx context.Context, scope refresh.Scope)
}

// Intervals sets the periodic refresh triggers. Zero disables a trigger.
type Intervals struct {
	Full     time.Duration
	Counters time.Duration
	Charts   time.Duration
}

// Scheduler fires periodic refresh requests
type Scheduler struct {
	cron    *cron.Cron
	entries map[refresh.Scope]cron.EntryID
	logger  *zap.Logger
}

// StartScheduler registers one cron entry per enabled interval and starts them.
// Every entry goes through target, so timer ticks never overlap a running refresh.
func StartScheduler(ctx context.Context, target Refresher, iv Intervals, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		entries: make(map[refresh.Scope]cron.EntryID),
		logger:  logger.Named("cron"),
	}

	triggers := []struct {
		scope refresh.Scope
		every time.Duration
	}{
		{refresh.ScopeAll, iv.Full},
		{refresh.ScopeCounters, iv.Counters},
		{refresh.ScopeCharts, iv.Charts},
	}

	for _, tr := range triggers {
		if tr.every <= 0 {
			continue
		}
		scope := tr.scope
		id, err := s.cron.AddFunc(everySpec(tr.every), func() {
			if ctx.Err() != nil {
				return
			}
			s.logger.Debug("scheduled refresh", zap.Stringer("scope", scope))
			target.RequestRefresh(ctx, scope)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s refresh: %w", scope, err)
		}
		s.entries[scope] = id
		s.logger.Info("refresh scheduled", zap.Stringer("scope", scope), zap.Duration("every", tr.every))
	}

	s.cron.Start()
	return s, nil
}

// Scheduled reports whether a trigger exists for scope
func (s *Scheduler) Scheduled(scope refresh.Scope) bool {
	_, ok := s.entries[scope]
	return ok
}

// Next returns the next fire time of the scope's trigger
func (s *Scheduler) Next(scope refresh.Scope) (time.Time, bool) {
	id, ok := s.entries[scope]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Stop halts the triggers and waits for a firing entry to return
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// everySpec renders d as a cron "@every" spec. cron runs at most once per second.
func everySpec(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	return "@every " + d.String()
}
