package service

import (
	"context"
	"fmt"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleProcessingMessage is stored on lectures the sweeper gives up on.
const StaleProcessingMessage = "processing timed out"

// Sweeper moves lectures that have been processing for longer than the
// timeout into the error status. Runs lost to a crash or restart would
// otherwise stay in processing forever.
type Sweeper struct {
	lectures domain.LectureRepository
	tracker  *StatusTracker
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
}

func NewSweeper(lectures domain.LectureRepository, tracker *StatusTracker, timeout time.Duration) *Sweeper {
	return &Sweeper{
		lectures: lectures,
		tracker:  tracker,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Sweep marks every stale lecture and returns how many were marked.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.timeout)
	stale, err := s.lectures.ListStale(ctx, domain.StatusProcessing, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale lectures: %w", err)
	}

	marked := 0
	for _, l := range stale {
		if err := s.lectures.UpdateStatus(ctx, l.ID, domain.StatusError, StaleProcessingMessage); err != nil {
			logger.Get().Error("Failed to mark stale lecture", zap.String("lecture_id", l.ID), zap.Error(err))
			continue
		}
		s.tracker.Update(ctx, l.ID, map[string]string{FieldStage: StageFailed, FieldMessage: StaleProcessingMessage})
		marked++
	}

	if marked > 0 {
		logger.Get().Warn("Marked stale lectures as failed",
			zap.Int("count", marked),
			zap.Time("updated_before", cutoff))
	}
	return marked, nil
}

// Start schedules Sweep on a cron spec such as "@every 5m".
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ctx); err != nil {
			logger.Get().Error("Stale lecture sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	logger.Get().Info("Stale lecture sweeper started", zap.String("schedule", spec), zap.Duration("timeout", s.timeout))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
