package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner polls for uploaded menus on a fixed interval and drains the queue
// on every tick.
type Runner struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

func NewRunner(service *Service, interval time.Duration, logger *zap.Logger) *Runner {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{service: service, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("extraction worker running", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("extraction worker stopped")
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

func (r *Runner) drain(ctx context.Context) {
	for ctx.Err() == nil {
		processed, err := r.service.ProcessOne(ctx)
		if err != nil {
			r.logger.Warn("worker poll failed", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}
