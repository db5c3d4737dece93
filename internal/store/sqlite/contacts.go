package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

// contactColumns is the ordered list of columns selected in contact queries.
// Must match the scan order in scanContact.
const contactColumns = `id, event_key, person_key, person_label, note, created_at, updated_at`

// scanContact scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Contact. Tags are loaded separately.
func scanContact(scanner interface{ Scan(dest ...any) error }) (*domain.Contact, error) {
	var c domain.Contact

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.EventKey,
		&c.PersonKey,
		&c.PersonLabel,
		&c.Note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// InsertContact inserts a new contact using INSERT OR IGNORE so the unique
// (event_key, person_key) index rejects duplicates without raising. Returns
// the new row ID, or store.InsertRejected when the index rejected the row.
// The unique index is the authoritative guard: two racing inserts for the
// same pair always resolve to exactly one persisted row.
func (s *Store) InsertContact(ctx context.Context, contact *domain.Contact) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO contacts (event_key, person_key, person_label, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		contact.EventKey,
		contact.PersonKey,
		contact.PersonLabel,
		contact.Note,
		formatTime(contact.CreatedAt),
		formatTime(contact.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Unique index rejected the row.
		return store.InsertRejected, nil
	}

	contactID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := setContactTags(ctx, tx, contactID, contact.Tags); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	contact.ID = contactID
	s.emit(store.Change{Entity: store.EntityContact, Op: store.OpInsert, EventKey: contact.EventKey})
	return contactID, nil
}

// ContactExists reports whether a contact for the (event, person) pair is
// already persisted. This is the pre-check layer of the duplicate guard; it
// is an optimization only, never a guarantee.
func (s *Store) ContactExists(ctx context.Context, eventKey, personKey int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM contacts WHERE event_key = ? AND person_key = ?`,
		eventKey, personKey).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetContact retrieves a contact by its local ID, including tags.
// Returns store.ErrNotFound if the contact does not exist.
func (s *Store) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)

	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Tags, err = s.loadContactTags(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListContactsByEvent returns the event's contacts ordered by creation time
// descending, including tags.
func (s *Store) ListContactsByEvent(ctx context.Context, eventKey int64) ([]*domain.Contact, error) {
	return s.listContacts(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE event_key = ? ORDER BY created_at DESC, id DESC`,
		eventKey)
}

// ListContacts returns all contacts ordered by creation time descending.
func (s *Store) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	return s.listContacts(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC`)
}

func (s *Store) listContacts(ctx context.Context, query string, args ...any) ([]*domain.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range contacts {
		c.Tags, err = s.loadContactTags(ctx, c.ID)
		if err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

// UpdateContact updates the mutable fields of a contact: note (when non-nil)
// and tags (when non-nil; an empty slice clears them). Identity fields never
// change. Returns the updated contact, or store.ErrNotFound.
func (s *Store) UpdateContact(ctx context.Context, id int64, note *string, tags []string) (*domain.Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var eventKey int64
	err = tx.QueryRowContext(ctx, `SELECT event_key FROM contacts WHERE id = ?`, id).Scan(&eventKey)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if note != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contacts SET note = ?, updated_at = ? WHERE id = ?`,
			*note, formatTime(time.Now()), id); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contacts SET updated_at = ? WHERE id = ?`,
			formatTime(time.Now()), id); err != nil {
			return nil, err
		}
	}

	if tags != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contact_tags WHERE contact_id = ?`, id); err != nil {
			return nil, err
		}
		if err := setContactTags(ctx, tx, id, tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.emit(store.Change{Entity: store.EntityContact, Op: store.OpUpdate, EventKey: eventKey})
	return s.GetContact(ctx, id)
}

// DeleteContact removes a contact. Tag links cascade via the contact_tags
// foreign key. Returns store.ErrNotFound if the contact does not exist.
func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	var eventKey int64
	err := s.db.QueryRowContext(ctx, `SELECT event_key FROM contacts WHERE id = ?`, id).Scan(&eventKey)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.emit(store.Change{Entity: store.EntityContact, Op: store.OpDelete, EventKey: eventKey})
	return nil
}

// setContactTags links the given tag slugs to a contact, creating tag rows
// as needed. Caller owns the transaction.
func setContactTags(ctx context.Context, tx *sql.Tx, contactID int64, tags []string) error {
	for _, slug := range domain.NormalizeTags(tags) {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (slug, created_at) VALUES (?, ?)`,
			slug, formatTime(time.Now())); err != nil {
			return err
		}

		var tagID int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE slug = ?`, slug).Scan(&tagID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO contact_tags (contact_id, tag_id) VALUES (?, ?)`,
			contactID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// loadContactTags returns the contact's tag slugs in alphabetical order.
func (s *Store) loadContactTags(ctx context.Context, contactID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.slug FROM tags t
		JOIN contact_tags ct ON ct.tag_id = t.id
		WHERE ct.contact_id = ?
		ORDER BY t.slug ASC`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		tags = append(tags, slug)
	}
	return tags, rows.Err()
}
