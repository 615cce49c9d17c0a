package cmd

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionCleaner deletes sessions that can no longer authenticate.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) error
}

// RunSessionJanitor cleans expired sessions every interval until ctx is done.
func RunSessionJanitor(ctx context.Context, sessions SessionCleaner, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.CleanExpiredSessions(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Failed to clean expired sessions", zap.Error(err))
			}
		}
	}
}
