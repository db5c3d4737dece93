// Package store defines the persistence interface for the MeetLog server.
package store

import (
	"context"

	"github.com/meetlogapp/meetlog-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetEmitter(emitter ChangeEmitter)

	// Events (cached from the remote listing service)
	ReplaceEventsForOwner(ctx context.Context, ownerID string, events []*domain.Event) error
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error)
	GetEventByKey(ctx context.Context, eventKey int64) (*domain.Event, error)
	DeleteEventsForOwner(ctx context.Context, ownerID string) error
	CountEvents(ctx context.Context) (int, error)

	// Contacts (locally created association records)
	InsertContact(ctx context.Context, contact *domain.Contact) (int64, error)
	ContactExists(ctx context.Context, eventKey, personKey int64) (bool, error)
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)
	ListContactsByEvent(ctx context.Context, eventKey int64) ([]*domain.Contact, error)
	ListContacts(ctx context.Context) ([]*domain.Contact, error)
	UpdateContact(ctx context.Context, id int64, note *string, tags []string) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

// InsertRejected is the sentinel returned by InsertContact when the
// uniqueness constraint rejects the row. Mirrors SQLite's INSERT OR IGNORE
// reporting zero rows affected instead of raising.
const InsertRejected int64 = -1
