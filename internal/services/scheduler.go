package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/chrono-planner-api/internal/logger"
)

// SchedulerService wraps cron-based jobs. Specs carry a seconds field.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	cronLogger := cron.PrintfLogger(logger.StdLogger(slog.LevelInfo))
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

// Schedule registers job under a six field cron spec.
func (s *SchedulerService) Schedule(spec string, job func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, job)
}

// ScheduleCompanionRefresh runs companion.RefreshAll on spec, bounding each run by timeout.
func (s *SchedulerService) ScheduleCompanionRefresh(spec string, companion *CompanionService, timeout time.Duration) (cron.EntryID, error) {
	return s.Schedule(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		stored, err := companion.RefreshAll(ctx)
		if err != nil {
			slog.Error("companion refresh aborted", "error", err, "stored", stored)
			return
		}
		slog.Info("companion refresh finished", "stored", stored, "took", time.Since(started))
	})
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
