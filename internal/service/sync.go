// Package service implements the application logic between the HTTP
// surface and the persistence/remote layers: event synchronization with
// cache fallback, contact management with duplicate protection, and
// people search passthrough.
package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/errors"
	"github.com/meetlogapp/meetlog-server/internal/remote"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

// EventSource is the remote event listing the sync service pulls from.
// *remote.Client satisfies it; tests substitute fakes.
type EventSource interface {
	ListEvents(ctx context.Context, ownerID string, page, pageSize int, order remote.Order) ([]remote.EventRecord, error)
	GetEvent(ctx context.Context, eventKey int64) (*remote.EventRecord, error)
}

// Origin reports where a fetch result came from.
type Origin string

const (
	OriginNetwork Origin = "network"
	OriginCache   Origin = "cache"
)

// FetchResult is a successful event fetch plus its provenance.
type FetchResult struct {
	Events []*domain.Event
	Origin Origin
}

// SyncService coordinates the remote event listing with the local cache.
// Reads are network-first: a fresh listing replaces the cached rows, and
// recoverable failures fall back to a non-empty cache instead of erroring.
type SyncService struct {
	store    store.Store
	source   EventSource
	logger   *slog.Logger
	pageSize int
}

func NewSyncService(st store.Store, source EventSource, logger *slog.Logger) *SyncService {
	return &SyncService{
		store:    st,
		source:   source,
		logger:   logger.With("service", "sync"),
		pageSize: 50,
	}
}

// Fetch returns the current event list for an owner.
//
// Normal mode tries the network first and atomically replaces the cached
// rows on success. On a recoverable failure (network, upstream 5xx, or a
// malformed payload) it falls back to the cache when the cache has rows;
// an empty cache surfaces the original failure.
//
// Forced mode clears the owner's cached rows before fetching, so a failed
// forced fetch cannot be masked by stale data.
func (s *SyncService) Fetch(ctx context.Context, ownerID string, forceRefresh bool) (*FetchResult, error) {
	// Correlation id for all log lines of one fetch attempt.
	runID := uuid.NewString()
	s.logger.Debug("fetch started",
		"run_id", runID,
		"owner_id", ownerID,
		"forced", forceRefresh)

	if forceRefresh {
		if err := s.store.DeleteEventsForOwner(ctx, ownerID); err != nil {
			return nil, errors.Internal("clearing cached events").WithCause(err)
		}
	}

	events, err := s.fetchRemote(ctx, ownerID)
	if err == nil {
		if err := s.store.ReplaceEventsForOwner(ctx, ownerID, events); err != nil {
			return nil, errors.Internal("caching fetched events").WithCause(err)
		}
		return &FetchResult{Events: events, Origin: OriginNetwork}, nil
	}

	if forceRefresh || !errors.IsRecoverable(err) {
		return nil, err
	}

	cached, cerr := s.store.ListEventsByOwner(ctx, ownerID)
	if cerr != nil || len(cached) == 0 {
		// Nothing usable to fall back on; the fetch failure wins.
		return nil, err
	}

	s.logger.Warn("remote fetch failed, serving cached events",
		"run_id", runID,
		"owner_id", ownerID,
		"cached", len(cached),
		"error", err)
	return &FetchResult{Events: cached, Origin: OriginCache}, nil
}

// PeekCached returns the cached events for an owner without touching the
// network.
func (s *SyncService) PeekCached(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return s.store.ListEventsByOwner(ctx, ownerID)
}

// IsCacheEmpty reports whether an owner has any cached events. Cache
// freshness is presence-based; there is no separate sync timestamp.
func (s *SyncService) IsCacheEmpty(ctx context.Context, ownerID string) (bool, error) {
	events, err := s.store.ListEventsByOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return len(events) == 0, nil
}

// GetEvent resolves one event, cache first, then the remote listing. A
// remote hit is returned as-is without being cached: single-event lookups
// must not disturb the owner-scoped replace semantics.
func (s *SyncService) GetEvent(ctx context.Context, eventKey int64) (*domain.Event, error) {
	event, err := s.store.GetEventByKey(ctx, eventKey)
	if err == nil {
		return event, nil
	}
	if !stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Internal("reading cached event").WithCause(err)
	}

	record, err := s.source.GetEvent(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	return remote.MapEvent(record)
}

// fetchRemote pages through the remote listing until a short page,
// decoding each page into domain events. Any page failing to fetch or
// decode fails the whole fetch; a partial listing never replaces the
// cache.
func (s *SyncService) fetchRemote(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	var all []*domain.Event
	for page := 1; ; page++ {
		records, err := s.source.ListEvents(ctx, ownerID, page, s.pageSize, remote.OrderDesc)
		if err != nil {
			return nil, err
		}

		events, err := remote.MapEvents(records)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)

		if len(records) < s.pageSize {
			return all, nil
		}
	}
}
