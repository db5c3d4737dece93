package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

func testEvent(key int64, title string, start time.Time) *domain.Event {
	return &domain.Event{
		EventKey:  key,
		Title:     title,
		StartedAt: &start,
		Place:     "Tokyo",
		Organizer: "gophers",
		Accepted:  12,
		Waiting:   3,
		URL:       "https://listing.example.com/event/" + title,
	}
}

func TestReplaceEventsForOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{
		testEvent(1, "e1", now.Add(-2*time.Hour)),
		testEvent(2, "e2", now.Add(-1*time.Hour)),
	})
	if err != nil {
		t.Fatalf("replace events: %v", err)
	}

	events, err := s.ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Start time descending.
	if events[0].EventKey != 2 || events[1].EventKey != 1 {
		t.Errorf("wrong order: got keys %d, %d", events[0].EventKey, events[1].EventKey)
	}

	// Replacing drops rows missing from the new set.
	err = s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{
		testEvent(1, "e1", now.Add(-2*time.Hour)),
		testEvent(3, "e3", now),
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}

	events, err = s.ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	keys := map[int64]bool{}
	for _, e := range events {
		keys[e.EventKey] = true
	}
	if !keys[1] || !keys[3] || keys[2] {
		t.Errorf("expected exactly keys 1 and 3, got %v", keys)
	}
}

func TestReplaceEventsForOwner_DoesNotTouchOtherOwners(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{testEvent(1, "e1", now)}); err != nil {
		t.Fatalf("replace u1: %v", err)
	}
	if err := s.ReplaceEventsForOwner(ctx, "u2", []*domain.Event{testEvent(2, "e2", now)}); err != nil {
		t.Fatalf("replace u2: %v", err)
	}

	u1, err := s.ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list u1: %v", err)
	}
	if len(u1) != 1 || u1[0].EventKey != 1 {
		t.Errorf("u1 cache disturbed: %+v", u1)
	}
}

func TestGetEventByKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	limit := 30
	e := testEvent(42, "conf", time.Now())
	e.Limit = &limit
	if err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{e}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetEventByKey(ctx, 42)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Title != "conf" || got.Limit == nil || *got.Limit != 30 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.StartedAt == nil {
		t.Error("expected started_at to survive the round trip")
	}

	_, err = s.GetEventByKey(ctx, 999)
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEventsForOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{testEvent(1, "e1", time.Now())}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if err := s.DeleteEventsForOwner(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	events, err := s.ListEventsByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty cache, got %d rows", len(events))
	}
}

func TestCountEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}

	if err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{
		testEvent(1, "e1", time.Now()),
		testEvent(2, "e2", time.Now()),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	n, err = s.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestNullableEventFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No timestamps, no limit.
	e := &domain.Event{EventKey: 7, Title: "tba", URL: "https://listing.example.com/event/7"}
	if err := s.ReplaceEventsForOwner(ctx, "u1", []*domain.Event{e}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetEventByKey(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StartedAt != nil || got.EndedAt != nil || got.Limit != nil {
		t.Errorf("expected nil optional fields, got %+v", got)
	}
}
