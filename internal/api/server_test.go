package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/meetlogapp/meetlog-server/internal/live"
	"github.com/meetlogapp/meetlog-server/internal/remote"
	"github.com/meetlogapp/meetlog-server/internal/service"
	"github.com/meetlogapp/meetlog-server/internal/store"
	"github.com/meetlogapp/meetlog-server/internal/store/sqlite"
)

// fakeRemote scripts the remote listing and people directory for tests.
type fakeRemote struct {
	mu     sync.Mutex
	events []remote.EventRecord
	people []remote.PersonRecord
	err    error
}

func (f *fakeRemote) ListEvents(_ context.Context, _ string, page, pageSize int, _ remote.Order) ([]remote.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if page > 1 {
		return nil, nil
	}
	return f.events, nil
}

func (f *fakeRemote) GetEvent(_ context.Context, eventKey int64) (*remote.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == eventKey {
			return &f.events[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRemote) SearchPeople(_ context.Context, _ string, _, _ int) ([]remote.PersonRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.people, nil
}

func (f *fakeRemote) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api    humatest.TestAPI
	remote *fakeRemote
	store  store.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	registry := live.NewRegistry(st, logger)
	st.SetEmitter(registry)
	t.Cleanup(registry.Shutdown)

	fake := &fakeRemote{}
	services := &Services{
		Sync:    service.NewSyncService(st, fake, logger),
		Contact: service.NewContactService(st, logger),
		People:  service.NewPeopleService(fake, logger),
	}

	s := NewServer(st, services, registry, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		remote: fake,
		store:  st,
	}
}
