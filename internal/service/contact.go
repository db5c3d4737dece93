package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/errors"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

// ContactService manages locally created contact records. Creation is
// duplicate-safe: at most one contact may exist per (event, person) pair,
// enforced in depth by a pre-check, a conditional insert, and the store's
// uniqueness constraint.
type ContactService struct {
	store  store.Store
	logger *slog.Logger
}

func NewContactService(st store.Store, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:  st,
		logger: logger.With("service", "contact"),
	}
}

// CreateContactInput carries the caller-supplied fields of a new contact.
type CreateContactInput struct {
	EventKey    int64
	PersonKey   int64
	PersonLabel string
	Note        string
	Tags        []string
}

// Create records a new contact for an (event, person) pair. A pair that
// already has a contact yields a DuplicateRecord error; concurrent
// creates of the same pair resolve to exactly one row, with the losers
// receiving the same error.
func (s *ContactService) Create(ctx context.Context, in CreateContactInput) (*domain.Contact, error) {
	now := time.Now().UTC()
	contact := &domain.Contact{
		EventKey:    in.EventKey,
		PersonKey:   in.PersonKey,
		PersonLabel: in.PersonLabel,
		Note:        in.Note,
		Tags:        domain.NormalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := contact.Validate(); err != nil {
		return nil, errors.Validation(err.Error())
	}

	// Fast path: reject before writing. The insert below remains the
	// authority under concurrency.
	exists, err := s.store.ContactExists(ctx, in.EventKey, in.PersonKey)
	if err != nil {
		return nil, errors.Internal("checking existing contact").WithCause(err)
	}
	if exists {
		return nil, errors.Duplicatef("contact already exists for event %d and person %d", in.EventKey, in.PersonKey)
	}

	id, err := s.store.InsertContact(ctx, contact)
	if err != nil {
		return nil, errors.Internal("inserting contact").WithCause(err)
	}
	if id == store.InsertRejected {
		// Lost a race with a concurrent create of the same pair.
		return nil, errors.Duplicatef("contact already exists for event %d and person %d", in.EventKey, in.PersonKey)
	}

	contact.ID = id
	s.logger.Info("contact created",
		"contact_id", id,
		"event_key", in.EventKey,
		"person_key", in.PersonKey)
	return contact, nil
}

// Get returns one contact by id.
func (s *ContactService) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("contact %d not found", id)
		}
		return nil, errors.Internal("reading contact").WithCause(err)
	}
	return contact, nil
}

// List returns contacts, newest first. A non-zero eventKey restricts the
// listing to one event.
func (s *ContactService) List(ctx context.Context, eventKey int64) ([]*domain.Contact, error) {
	var (
		contacts []*domain.Contact
		err      error
	)
	if eventKey != 0 {
		contacts, err = s.store.ListContactsByEvent(ctx, eventKey)
	} else {
		contacts, err = s.store.ListContacts(ctx)
	}
	if err != nil {
		return nil, errors.Internal("listing contacts").WithCause(err)
	}
	return contacts, nil
}

// Update changes a contact's note and/or tags. A nil note or nil tags
// slice leaves that field untouched; an empty tags slice clears the tags.
func (s *ContactService) Update(ctx context.Context, id int64, note *string, tags []string) (*domain.Contact, error) {
	if tags != nil {
		tags = domain.NormalizeTags(tags)
	}

	contact, err := s.store.UpdateContact(ctx, id, note, tags)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("contact %d not found", id)
		}
		return nil, errors.Internal("updating contact").WithCause(err)
	}
	return contact, nil
}

// Delete removes a contact. Deleting frees the (event, person) pair for a
// future create.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteContact(ctx, id); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("contact %d not found", id)
		}
		return errors.Internal("deleting contact").WithCause(err)
	}
	s.logger.Info("contact deleted", "contact_id", id)
	return nil
}
