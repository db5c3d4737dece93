package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetlogapp/meetlog-server/internal/errors"
)

func newContactService(t *testing.T) *ContactService {
	t.Helper()
	return NewContactService(newTestStore(t), testLogger())
}

func TestCreateContact(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	contact, err := svc.Create(ctx, CreateContactInput{
		EventKey:    10,
		PersonKey:   20,
		PersonLabel: "Alex",
		Note:        "met at the door",
		Tags:        []string{"Speaker", "go"},
	})
	require.NoError(t, err)
	assert.Positive(t, contact.ID)
	assert.Equal(t, []string{"speaker", "go"}, contact.Tags)
	assert.False(t, contact.CreatedAt.IsZero())

	got, err := svc.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "met at the door", got.Note)
}

func TestCreateContact_Validation(t *testing.T) {
	svc := newContactService(t)

	_, err := svc.Create(context.Background(), CreateContactInput{
		EventKey:  0,
		PersonKey: 20,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestCreateContact_DuplicatePair(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 20, PersonLabel: "Alex"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 20, PersonLabel: "Alex again"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateRecord)

	// Different person at the same event is fine.
	_, err = svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 21, PersonLabel: "Sam"})
	require.NoError(t, err)
}

func TestCreateContact_ConcurrentSamePair(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Create(ctx, CreateContactInput{
				EventKey:    10,
				PersonKey:   20,
				PersonLabel: "Alex",
			})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errors.ErrDuplicateRecord):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one create wins")
	assert.Equal(t, attempts-1, dup)

	contacts, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestDeleteContact_FreesPair(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	contact, err := svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 20, PersonLabel: "Alex"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, contact.ID))

	// The pair is reusable after deletion.
	_, err = svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 20, PersonLabel: "Alex"})
	require.NoError(t, err)
}

func TestUpdateContact(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	contact, err := svc.Create(ctx, CreateContactInput{
		EventKey:    10,
		PersonKey:   20,
		PersonLabel: "Alex",
		Note:        "original",
		Tags:        []string{"go"},
	})
	require.NoError(t, err)

	// Note only; tags untouched.
	note := "updated"
	got, err := svc.Update(ctx, contact.ID, &note, nil)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Note)
	assert.Equal(t, []string{"go"}, got.Tags)

	// Empty tags slice clears them.
	got, err = svc.Update(ctx, contact.ID, nil, []string{})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "updated", got.Note)
}

func TestUpdateContact_NotFound(t *testing.T) {
	svc := newContactService(t)

	note := "x"
	_, err := svc.Update(context.Background(), 9999, &note, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListContacts_ScopedAndAll(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateContactInput{EventKey: 10, PersonKey: 20, PersonLabel: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateContactInput{EventKey: 11, PersonKey: 20, PersonLabel: "B"})
	require.NoError(t, err)

	scoped, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
