package providers

import (
	"github.com/samber/do/v2"

	"github.com/meetlogapp/meetlog-server/internal/config"
	"github.com/meetlogapp/meetlog-server/internal/logger"
	"github.com/meetlogapp/meetlog-server/internal/remote"
)

// RemoteClientHandle wraps the remote listing client.
type RemoteClientHandle struct {
	*remote.Client
}

// Shutdown implements do.Shutdownable.
func (h *RemoteClientHandle) Shutdown() error {
	// The client holds no persistent connections beyond the pooled
	// transport; nothing to tear down.
	return nil
}

// ProvideRemoteClient provides the rate-limited remote listing client.
func ProvideRemoteClient(i do.Injector) (*RemoteClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := remote.NewClient(cfg.Remote, log.Logger)

	log.Info("Remote listing client configured",
		"base_url", cfg.Remote.BaseURL,
		"rps", cfg.Remote.RequestsPerSecond,
		"burst", cfg.Remote.Burst,
	)

	return &RemoteClientHandle{Client: client}, nil
}
