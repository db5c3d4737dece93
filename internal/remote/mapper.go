package remote

import (
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/errors"
)

// MapEvent converts a wire-format event record to a domain event.
// Absent timestamps (empty strings upstream) become nil; a present but
// unparsable timestamp is a decode failure, not a silent drop.
func MapEvent(r *EventRecord) (*domain.Event, error) {
	startedAt, err := parseTimestamp(r.StartedAt)
	if err != nil {
		return nil, errors.Decodef("bad started_at for event %d: %v", r.ID, err)
	}
	endedAt, err := parseTimestamp(r.EndedAt)
	if err != nil {
		return nil, errors.Decodef("bad ended_at for event %d: %v", r.ID, err)
	}

	e := &domain.Event{
		EventKey:  r.ID,
		Title:     r.Title,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Place:     r.Location,
		Organizer: r.Organizer,
		Accepted:  r.Accepted,
		Waiting:   r.Waiting,
		Limit:     r.Limit,
		URL:       r.URL,
	}
	if err := e.Validate(); err != nil {
		return nil, errors.Decode("invalid event record").WithCause(err)
	}
	return e, nil
}

// MapEvents converts a page of wire-format records, failing on the first
// invalid record. A partially mapped page is never returned.
func MapEvents(records []EventRecord) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0, len(records))
	for i := range records {
		e, err := MapEvent(&records[i])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// MapPerson converts a wire-format subject record to a domain person.
func MapPerson(r *PersonRecord) *domain.Person {
	return &domain.Person{
		PersonKey:   r.ID,
		Nickname:    r.Nickname,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
		ProfileURL:  r.ProfileURL,
	}
}

// MapPeople converts a page of wire-format subject records.
func MapPeople(records []PersonRecord) []*domain.Person {
	people := make([]*domain.Person, 0, len(records))
	for i := range records {
		people = append(people, MapPerson(&records[i]))
	}
	return people
}

// parseTimestamp parses an ISO-8601 timestamp, treating the empty string as
// absent per the listing service contract.
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
