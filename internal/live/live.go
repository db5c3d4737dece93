// Package live implements observable queries over the local store.
//
// A subscription receives the current snapshot immediately, then a fresh
// snapshot after every committed mutation matching its query. Snapshots are
// coalesced: a slow subscriber sees the latest state, not every
// intermediate one. Cancelling a subscription stops delivery without any
// effect on stored data.
package live

import (
	"context"
	"log/slog"
	"sync"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/errors"
	"github.com/meetlogapp/meetlog-server/internal/id"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

// Scope selects which entity family a query observes.
type Scope string

const (
	// ScopeEvents observes cached events for an owner.
	ScopeEvents Scope = "events"
	// ScopeContacts observes contacts, optionally filtered to one event.
	ScopeContacts Scope = "contacts"
)

// Query describes a live query over the local store.
type Query struct {
	Scope    Scope
	OwnerID  string // required for ScopeEvents
	EventKey int64  // optional for ScopeContacts; 0 means all contacts
}

// Validate checks the query shape.
func (q Query) Validate() error {
	switch q.Scope {
	case ScopeEvents:
		if q.OwnerID == "" {
			return errors.Validation("events query requires an owner")
		}
	case ScopeContacts:
		if q.EventKey < 0 {
			return errors.Validation("event key must not be negative")
		}
	default:
		return errors.Validationf("unknown query scope %q", q.Scope)
	}
	return nil
}

// matches reports whether a store change affects this query's result set.
func (q Query) matches(c store.Change) bool {
	switch q.Scope {
	case ScopeEvents:
		return c.Entity == store.EntityEvent && c.OwnerID == q.OwnerID
	case ScopeContacts:
		return c.Entity == store.EntityContact && (q.EventKey == 0 || c.EventKey == q.EventKey)
	}
	return false
}

// Snapshot is one delivery to a subscriber. Exactly one of Events or
// Contacts is populated, per the query scope.
type Snapshot struct {
	Scope    Scope             `json:"scope"`
	Events   []*domain.Event   `json:"events,omitempty"`
	Contacts []*domain.Contact `json:"contacts,omitempty"`
}

// Subscription is a live query handle. Read snapshots from C; call Close
// (or cancel the subscribe context) to stop delivery. C is closed on
// cancellation.
type Subscription struct {
	ID    string
	Query Query
	C     <-chan Snapshot

	ch     chan Snapshot
	notify chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Registry tracks active subscriptions and refreshes them on store changes.
// It implements store.ChangeEmitter and is wired to the store at startup.
type Registry struct {
	store  store.Store
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]*Subscription
}

// NewRegistry creates a new live query registry over the given store.
func NewRegistry(st store.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  st,
		logger: logger,
		subs:   make(map[string]*Subscription),
	}
}

// Subscribe registers a live query. The initial snapshot is queried
// synchronously and delivered as the first receive on the channel, so a new
// subscriber always starts from current state before seeing deltas.
//
// The subscription is registered before the snapshot query runs: a mutation
// committed while the query executes parks a notification, and the pump
// follows the possibly-stale snapshot with a fresh one. A change is never
// lost in the registration window.
func (r *Registry) Subscribe(ctx context.Context, q Query) (*Subscription, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ID:     id.MustGenerate("sub"),
		Query:  q,
		ch:     make(chan Snapshot, 1),
		notify: make(chan struct{}, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	sub.C = sub.ch

	r.mu.Lock()
	r.subs[sub.ID] = sub
	r.mu.Unlock()

	snap, err := r.runQuery(ctx, q)
	if err != nil {
		r.mu.Lock()
		delete(r.subs, sub.ID)
		r.mu.Unlock()
		cancel()
		close(sub.ch)
		close(sub.done)
		return nil, err
	}
	sub.ch <- snap

	go r.pump(subCtx, sub)

	r.logger.Debug("live subscription opened", "id", sub.ID, "scope", q.Scope)
	return sub, nil
}

// Emit implements store.ChangeEmitter. It only flips per-subscription
// dirty flags, so the store's write path never blocks on subscribers.
func (r *Registry) Emit(change store.Change) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subs {
		if !sub.Query.matches(change) {
			continue
		}
		select {
		case sub.notify <- struct{}{}:
		default:
			// Refresh already pending; it will pick up this change too.
		}
	}
}

// Shutdown cancels all active subscriptions.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	for _, sub := range subs {
		sub.Close()
	}
}

// pump re-runs the query whenever the subscription is marked dirty and
// delivers the fresh snapshot, replacing any undelivered one.
func (r *Registry) pump(ctx context.Context, sub *Subscription) {
	defer func() {
		r.mu.Lock()
		delete(r.subs, sub.ID)
		r.mu.Unlock()
		close(sub.ch)
		close(sub.done)
		r.logger.Debug("live subscription closed", "id", sub.ID)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.notify:
		}

		snap, err := r.runQuery(ctx, sub.Query)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("live query refresh failed", "id", sub.ID, "error", err)
			continue
		}

		// Coalesce: drop the undelivered snapshot, keep the latest.
		select {
		case sub.ch <- snap:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snap:
			case <-ctx.Done():
				return
			}
		}
	}
}

// runQuery executes the query against the local store.
func (r *Registry) runQuery(ctx context.Context, q Query) (Snapshot, error) {
	switch q.Scope {
	case ScopeEvents:
		events, err := r.store.ListEventsByOwner(ctx, q.OwnerID)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Scope: ScopeEvents, Events: events}, nil
	case ScopeContacts:
		var (
			contacts []*domain.Contact
			err      error
		)
		if q.EventKey > 0 {
			contacts, err = r.store.ListContactsByEvent(ctx, q.EventKey)
		} else {
			contacts, err = r.store.ListContacts(ctx)
		}
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Scope: ScopeContacts, Contacts: contacts}, nil
	}
	return Snapshot{}, errors.Validationf("unknown query scope %q", q.Scope)
}
