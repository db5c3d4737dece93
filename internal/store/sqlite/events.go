package sqlite

import (
	"context"
	"database/sql"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

// eventColumns is the ordered list of columns selected in event queries.
// Must match the scan order in scanEvent.
const eventColumns = `event_key, title, started_at, ended_at, place, organizer, accepted, waiting, event_limit, url`

// scanEvent scans a sql.Row (or sql.Rows via its Scan method) into a domain.Event.
func scanEvent(scanner interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	var e domain.Event

	var (
		startedAt sql.NullString
		endedAt   sql.NullString
		limit     sql.NullInt64
	)

	err := scanner.Scan(
		&e.EventKey,
		&e.Title,
		&startedAt,
		&endedAt,
		&e.Place,
		&e.Organizer,
		&e.Accepted,
		&e.Waiting,
		&limit,
		&e.URL,
	)
	if err != nil {
		return nil, err
	}

	e.StartedAt, err = parseNullableTime(startedAt)
	if err != nil {
		return nil, err
	}
	e.EndedAt, err = parseNullableTime(endedAt)
	if err != nil {
		return nil, err
	}
	e.Limit = intPtrFromNull(limit)

	return &e, nil
}

// ReplaceEventsForOwner atomically replaces the owner's cached events with
// the given set. The delete and all inserts run in a single transaction, so
// a cancelled or failed call leaves the previous rows intact.
func (s *Store) ReplaceEventsForOwner(ctx context.Context, ownerID string, events []*domain.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (owner_id, event_key, title, started_at, ended_at, place, organizer, accepted, waiting, event_limit, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_key) DO UPDATE SET
			owner_id    = excluded.owner_id,
			title       = excluded.title,
			started_at  = excluded.started_at,
			ended_at    = excluded.ended_at,
			place       = excluded.place,
			organizer   = excluded.organizer,
			accepted    = excluded.accepted,
			waiting     = excluded.waiting,
			event_limit = excluded.event_limit,
			url         = excluded.url`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			ownerID,
			e.EventKey,
			e.Title,
			nullTimeString(e.StartedAt),
			nullTimeString(e.EndedAt),
			e.Place,
			e.Organizer,
			e.Accepted,
			e.Waiting,
			nullIntFromPtr(e.Limit),
			e.URL,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.emit(store.Change{Entity: store.EntityEvent, Op: store.OpReplace, OwnerID: ownerID})
	return nil
}

// ListEventsByOwner returns the owner's cached events ordered by start time
// descending, with events lacking a start time last.
func (s *Store) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE owner_id = ?
		 ORDER BY started_at IS NULL, started_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEventByKey retrieves a cached event by its external key.
// Returns store.ErrNotFound if the event is not cached.
func (s *Store) GetEventByKey(ctx context.Context, eventKey int64) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_key = ?`, eventKey)

	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEventsForOwner removes all cached events for the owner.
// Used by forced refresh before re-fetching.
func (s *Store) DeleteEventsForOwner(ctx context.Context, ownerID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE owner_id = ?`, ownerID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		s.emit(store.Change{Entity: store.EntityEvent, Op: store.OpDelete, OwnerID: ownerID})
	}
	return nil
}

// CountEvents returns the total number of cached events across all owners.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
