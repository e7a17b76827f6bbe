package workers

import (
	"context"
	"time"

	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/repositories"
)

// CleanupWorker periodically prunes expired refresh tokens. Notification
// rows are an append-only log per user and are never touched here.
type CleanupWorker struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
}

func NewCleanupWorker(refreshTokenRepo repositories.RefreshTokenRepository, intervalHours int) *CleanupWorker {
	return &CleanupWorker{
		refreshTokenRepo: refreshTokenRepo,
		interval:         time.Duration(intervalHours) * time.Hour,
	}
}

// Start runs the cleanup loop until the context is cancelled. One pass
// runs immediately on startup.
func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce()
	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *CleanupWorker) runOnce() {
	removed, err := w.refreshTokenRepo.DeleteExpired()
	logger.WorkerLog("cleanup", "prune expired refresh tokens", err)
	if err == nil && removed > 0 {
		logger.Info("pruned expired refresh tokens", "count", removed)
	}
}
