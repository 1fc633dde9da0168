package cmd

import (
	"context"
	"time"

	"venue-booking/internal/data/repository"

	"go.uber.org/zap"
)

// SessionJanitor purges long-expired sessions every interval until ctx ends.
func SessionJanitor(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) {
	logger = logger.With(zap.String("worker", "session-janitor"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}
