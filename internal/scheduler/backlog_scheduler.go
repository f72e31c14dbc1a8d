package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/verification-backend/internal/app/service"
	"github.com/ikkim/verification-backend/internal/metrics"
	"github.com/ikkim/verification-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BacklogSource reports the size of the review queue.
type BacklogSource interface {
	PendingBacklog(ctx context.Context, staleAfter time.Duration) (service.Backlog, error)
}

// BacklogScheduler 심사 대기열 점검 스케줄러
type BacklogScheduler struct {
	cron       *cron.Cron
	source     BacklogSource
	metrics    *metrics.Metrics
	spec       string
	staleAfter time.Duration
}

// NewBacklogScheduler 대기열 스케줄러 생성
func NewBacklogScheduler(source BacklogSource, m *metrics.Metrics, spec string, staleAfter time.Duration) *BacklogScheduler {
	return &BacklogScheduler{
		cron:       cron.New(),
		source:     source,
		metrics:    m,
		spec:       spec,
		staleAfter: staleAfter,
	}
}

// Start 스케줄러 시작
func (s *BacklogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			logger.Error("Failed to check verification backlog from scheduler", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for verification backlog", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Verification backlog scheduler started", map[string]interface{}{
		"spec":        s.spec,
		"stale_after": s.staleAfter.String(),
	})
	return nil
}

// Stop waits for a running check to finish.
func (s *BacklogScheduler) Stop() {
	logger.Info("Stopping verification backlog scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Verification backlog scheduler stopped", nil)
}

// RunOnce checks the backlog and publishes the gauges.
func (s *BacklogScheduler) RunOnce(ctx context.Context) (service.Backlog, error) {
	backlog, err := s.source.PendingBacklog(ctx, s.staleAfter)
	if err != nil {
		return service.Backlog{}, err
	}

	s.metrics.SetBacklog(backlog.Pending, backlog.Stale)
	s.metrics.SetStatusCounts(backlog.ByStatus)

	fields := map[string]interface{}{
		"pending": backlog.Pending,
		"stale":   backlog.Stale,
	}
	if backlog.Stale > 0 {
		logger.Warn("Verification requests waiting longer than threshold", fields)
	} else {
		logger.Debug("Verification backlog checked", fields)
	}
	return backlog, nil
}
