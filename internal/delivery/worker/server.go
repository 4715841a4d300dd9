// Package worker runs periodic background maintenance alongside the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"erpcore/config"
	"erpcore/internal/delivery"
	"erpcore/internal/usecase"

	"go.uber.org/fx"
)

// ServerParams holds dependencies for the maintenance worker.
type ServerParams struct {
	fx.In

	Lc             fx.Lifecycle
	Cfg            *config.Config
	Logger         *slog.Logger
	SessionUsecase usecase.SessionUsecase
}

type cleanupWorker struct {
	interval time.Duration
	logger   *slog.Logger
	sessions usecase.SessionUsecase

	cancel context.CancelFunc
	done   chan struct{}
}

// NewServer creates the session cleanup worker. It periodically deletes
// expired refresh token records so the sessions table does not grow without
// bound.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	worker := &cleanupWorker{
		interval: params.Cfg.Auth.SessionCleanupInterval,
		logger:   params.Logger,
		sessions: params.SessionUsecase,
		done:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: worker.stop,
	})

	return worker, nil
}

// Serve runs the cleanup loop until the context is cancelled.
func (w *cleanupWorker) Serve(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	defer close(w.done)

	w.logger.Info("Starting session cleanup worker", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *cleanupWorker) runOnce(ctx context.Context) {
	deleted, err := w.sessions.CleanupExpiredTokens(ctx)
	if err != nil {
		w.logger.Error("Session cleanup failed", slog.Any("error", err))

		return
	}
	if deleted > 0 {
		w.logger.Info("Session cleanup finished", slog.Int64("deleted", deleted))
	}
}

func (w *cleanupWorker) stop(ctx context.Context) error {
	w.logger.Info("Shutting down session cleanup worker")
	if w.cancel != nil {
		w.cancel()
	}

	select {
	case <-w.done:
	case <-ctx.Done():
	}

	return nil
}
