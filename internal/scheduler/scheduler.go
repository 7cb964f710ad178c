package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/farmflow/farmflow-server/internal/service"
	"github.com/farmflow/farmflow-server/internal/utils"
)

// Scheduler drives the daily statistics report. The report itself is a plain
// service call; this wrapper only owns the cron trigger, so a failed run is
// logged and never prevents the next one.
type Scheduler struct {
	cron *cron.Cron
	svc  service.Service
	log  *utils.Logger
	spec string
}

// New creates a scheduler firing the daily report on the given cron spec.
func New(svc service.Service, spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  utils.NewLogger(),
		spec: spec,
	}
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDailyReport); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("report scheduler started (schedule %q)", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("report scheduler stopped")
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.svc.SendDailyStatistics(ctx); err != nil {
		s.log.Error("daily statistics report failed: %v", err)
		return
	}

	s.log.Info("daily statistics report sent")
}
