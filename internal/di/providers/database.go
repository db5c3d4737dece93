package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/meetlogapp/meetlog-server/internal/config"
	"github.com/meetlogapp/meetlog-server/internal/live"
	"github.com/meetlogapp/meetlog-server/internal/logger"
	"github.com/meetlogapp/meetlog-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "meetlog.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// LiveRegistryHandle wraps the live query registry for lifecycle management.
type LiveRegistryHandle struct {
	*live.Registry
}

// Shutdown implements do.Shutdownable.
func (h *LiveRegistryHandle) Shutdown() error {
	h.Registry.Shutdown()
	return nil
}

// ProvideLiveRegistry provides the live query registry, wired into the
// store so writes refresh active subscriptions.
func ProvideLiveRegistry(i do.Injector) (*LiveRegistryHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	registry := live.NewRegistry(storeHandle.Store, log.Logger)
	storeHandle.SetEmitter(registry)

	log.Info("Live query registry started")

	return &LiveRegistryHandle{Registry: registry}, nil
}
