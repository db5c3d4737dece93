// Package di provides dependency injection configuration for the MeetLog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/meetlogapp/meetlog-server/internal/config"
	"github.com/meetlogapp/meetlog-server/internal/di/providers"
	"github.com/meetlogapp/meetlog-server/internal/logger"
	"github.com/meetlogapp/meetlog-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence and live queries
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideLiveRegistry)

	// Remote listing client
	do.Provide(injector, providers.ProvideRemoteClient)

	// Business services
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideContactService)
	do.Provide(injector, providers.ProvidePeopleService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.LiveRegistryHandle](injector)
	_ = do.MustInvoke[*providers.RemoteClientHandle](injector)

	_ = do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*service.ContactService](injector)
	_ = do.MustInvoke[*service.PeopleService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
