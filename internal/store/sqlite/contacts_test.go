package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/store"
)

func testContact(eventKey, personKey int64, label string) *domain.Contact {
	now := time.Now()
	return &domain.Contact{
		EventKey:    eventKey,
		PersonKey:   personKey,
		PersonLabel: label,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestInsertContact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := testContact(1, 100, "Alex")
	c.Note = "met at the afterparty"
	c.Tags = []string{"Go", "Backend"}

	contactID, err := s.InsertContact(ctx, c)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if contactID <= 0 {
		t.Fatalf("expected positive id, got %d", contactID)
	}

	got, err := s.GetContact(ctx, contactID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EventKey != 1 || got.PersonKey != 100 || got.PersonLabel != "Alex" {
		t.Errorf("identity mismatch: %+v", got)
	}
	if got.Note != "met at the afterparty" {
		t.Errorf("note mismatch: %q", got.Note)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "backend" || got.Tags[1] != "go" {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
}

func TestInsertContact_DuplicateSentinel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.InsertContact(ctx, testContact(1, 100, "Alex"))
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if first <= 0 {
		t.Fatalf("expected positive id, got %d", first)
	}

	// Same pair again: the unique index rejects it and we get the sentinel,
	// not an error.
	second, err := s.InsertContact(ctx, testContact(1, 100, "Alex again"))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if second != store.InsertRejected {
		t.Errorf("expected InsertRejected, got %d", second)
	}

	// Different person at the same event is fine.
	third, err := s.InsertContact(ctx, testContact(1, 200, "Sam"))
	if err != nil {
		t.Fatalf("third insert: %v", err)
	}
	if third <= 0 {
		t.Errorf("expected positive id, got %d", third)
	}
}

func TestInsertContact_ConcurrentSamePair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	results := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.InsertContact(ctx, testContact(5, 500, "Race"))
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i] == store.InsertRejected {
			rejections++
		} else if results[i] > 0 {
			successes++
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 successful insert, got %d", successes)
	}
	if rejections != workers-1 {
		t.Errorf("expected %d rejections, got %d", workers-1, rejections)
	}

	// Exactly one row persisted.
	contacts, err := s.ListContactsByEvent(ctx, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(contacts) != 1 {
		t.Errorf("expected 1 persisted contact, got %d", len(contacts))
	}
}

func TestContactExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.ContactExists(ctx, 1, 100)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("expected no contact yet")
	}

	if _, err := s.InsertContact(ctx, testContact(1, 100, "Alex")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	exists, err = s.ContactExists(ctx, 1, 100)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("expected contact to exist")
	}
}

func TestListContactsByEvent_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := testContact(1, 100, "First")
	older.CreatedAt = time.Now().Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt
	if _, err := s.InsertContact(ctx, older); err != nil {
		t.Fatalf("insert older: %v", err)
	}

	newer := testContact(1, 200, "Second")
	if _, err := s.InsertContact(ctx, newer); err != nil {
		t.Fatalf("insert newer: %v", err)
	}

	// Different event should not appear.
	if _, err := s.InsertContact(ctx, testContact(2, 300, "Other")); err != nil {
		t.Fatalf("insert other: %v", err)
	}

	contacts, err := s.ListContactsByEvent(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	// Creation time descending.
	if contacts[0].PersonLabel != "Second" || contacts[1].PersonLabel != "First" {
		t.Errorf("wrong order: %s, %s", contacts[0].PersonLabel, contacts[1].PersonLabel)
	}
}

func TestUpdateContact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := testContact(1, 100, "Alex")
	c.Tags = []string{"go"}
	contactID, err := s.InsertContact(ctx, c)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	note := "works on infra"
	got, err := s.UpdateContact(ctx, contactID, &note, []string{"Infra", "SRE"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Note != "works on infra" {
		t.Errorf("note not updated: %q", got.Note)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "infra" || got.Tags[1] != "sre" {
		t.Errorf("tags not replaced: %v", got.Tags)
	}
	// Identity untouched.
	if got.EventKey != 1 || got.PersonKey != 100 {
		t.Errorf("identity changed: %+v", got)
	}

	// Nil note and nil tags leave both alone.
	got, err = s.UpdateContact(ctx, contactID, nil, nil)
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if got.Note != "works on infra" || len(got.Tags) != 2 {
		t.Errorf("noop update mutated fields: %+v", got)
	}

	// Empty slice clears tags.
	got, err = s.UpdateContact(ctx, contactID, nil, []string{})
	if err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags not cleared: %v", got.Tags)
	}

	_, err = s.UpdateContact(ctx, 9999, &note, nil)
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteContact_CascadesTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := testContact(1, 100, "Alex")
	c.Tags = []string{"go"}
	contactID, err := s.InsertContact(ctx, c)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.DeleteContact(ctx, contactID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetContact(ctx, contactID); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Tag links are gone.
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM contact_tags WHERE contact_id = ?`, contactID).Scan(&n); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if n != 0 {
		t.Errorf("expected cascade delete of tag links, got %d rows", n)
	}

	if err := s.DeleteContact(ctx, contactID); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestInsertContact_EmitsChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var changes []store.Change
	s.SetEmitter(emitterFunc(func(c store.Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	}))

	if _, err := s.InsertContact(ctx, testContact(1, 100, "Alex")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Duplicate insert must not emit.
	if _, err := s.InsertContact(ctx, testContact(1, 100, "Alex")); err != nil {
		t.Fatalf("dup insert: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Entity != store.EntityContact || changes[0].Op != store.OpInsert || changes[0].EventKey != 1 {
		t.Errorf("unexpected change: %+v", changes[0])
	}
}

// emitterFunc adapts a function to the store.ChangeEmitter interface.
type emitterFunc func(store.Change)

func (f emitterFunc) Emit(c store.Change) { f(c) }
