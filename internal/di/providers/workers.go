package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/lifediary/lifediary-server/internal/logger"
)

// SessionCleanupJob periodically deletes expired sessions.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the session cleanup background job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	cleanup := func() {
		deleted, err := storeHandle.DeleteExpiredSessions(ctx)
		if err != nil {
			log.Warn("Session cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			log.Info("Expired sessions removed", "count", deleted)
		}
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		cleanup()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", "1h")

	return &SessionCleanupJob{cancel: cancel}, nil
}
