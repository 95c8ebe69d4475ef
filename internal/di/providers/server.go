package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/lifediary/lifediary-server/internal/api"
	"github.com/lifediary/lifediary-server/internal/config"
	"github.com/lifediary/lifediary-server/internal/logger"
	"github.com/lifediary/lifediary-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Default tags must exist before the first request is served.
	_ = do.MustInvoke[*Bootstrap](i)

	services := &api.Services{
		Auth:     do.MustInvoke[*service.AuthService](i),
		Session:  do.MustInvoke[*service.SessionService](i),
		Tag:      do.MustInvoke[*service.TagService](i),
		Slot:     do.MustInvoke[*service.SlotService](i),
		Goal:     do.MustInvoke[*service.GoalService](i),
		Note:     do.MustInvoke[*service.NoteService](i),
		Stats:    do.MustInvoke[*service.StatsService](i),
		Feedback: do.MustInvoke[*service.FeedbackService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
