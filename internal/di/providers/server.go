package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/meetlogapp/meetlog-server/internal/api"
	"github.com/meetlogapp/meetlog-server/internal/config"
	"github.com/meetlogapp/meetlog-server/internal/logger"
	"github.com/meetlogapp/meetlog-server/internal/service"
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
	registryHandle := do.MustInvoke[*LiveRegistryHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Sync:    do.MustInvoke[*service.SyncService](i),
		Contact: do.MustInvoke[*service.ContactService](i),
		People:  do.MustInvoke[*service.PeopleService](i),
	}

	apiServer := api.NewServer(storeHandle.Store, services, registryHandle.Registry, log.Logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
