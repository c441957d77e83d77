package auditlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"picklab-api/internal/logging"
)

// RunPurge deletes entries older than months on every tick until ctx ends.
// A non-positive interval disables purging.
func RunPurge(ctx context.Context, svc AuditLogServiceAPI, interval time.Duration, months int, log *zap.Logger) {
	if interval <= 0 {
		return
	}
	log = logging.OrNop(log)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("audit purge scheduled", zap.Duration("interval", interval), zap.Int("months", months))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.DeleteOldLogs(months); err != nil {
				log.Warn("scheduled audit purge failed", zap.Error(err))
			}
		}
	}
}
