package providers

import (
	"github.com/samber/do/v2"

	"github.com/meetlogapp/meetlog-server/internal/logger"
	"github.com/meetlogapp/meetlog-server/internal/service"
)

// ProvideSyncService provides the event synchronization service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteHandle := do.MustInvoke[*RemoteClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(storeHandle.Store, remoteHandle.Client, log.Logger), nil
}

// ProvideContactService provides the contact management service.
func ProvideContactService(i do.Injector) (*service.ContactService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContactService(storeHandle.Store, log.Logger), nil
}

// ProvidePeopleService provides the people search service.
func ProvidePeopleService(i do.Injector) (*service.PeopleService, error) {
	remoteHandle := do.MustInvoke[*RemoteClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPeopleService(remoteHandle.Client, log.Logger), nil
}
