package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/meetlogapp/meetlog-server/internal/errors"
)

func createTestContact(t *testing.T, ts *testServer, eventKey, personKey int64) ContactResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/contacts", map[string]any{
		"event_key":    eventKey,
		"person_key":   personKey,
		"person_label": "Alex",
		"note":         "met at the door",
		"tags":         []string{"Speaker"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var contact ContactResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &contact))
	return contact
}

func TestCreateContact_Handler(t *testing.T) {
	ts := setupTestServer(t)

	contact := createTestContact(t, ts, 10, 20)
	assert.Positive(t, contact.ID)
	assert.Equal(t, []string{"speaker"}, contact.Tags)
}

func TestCreateContact_DuplicateReturns409(t *testing.T) {
	ts := setupTestServer(t)

	createTestContact(t, ts, 10, 20)

	resp := ts.api.Post("/api/v1/contacts", map[string]any{
		"event_key":    10,
		"person_key":   20,
		"person_label": "Alex",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, string(domainerrors.CodeDuplicateRecord), apiErr.Code)
}

func TestCreateContact_ValidationRejected(t *testing.T) {
	ts := setupTestServer(t)

	// Missing person_label fails schema validation before the handler runs.
	resp := ts.api.Post("/api/v1/contacts", map[string]any{
		"event_key":  10,
		"person_key": 20,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, string(domainerrors.CodeValidation), apiErr.Code)

	// A present but blank label passes the schema and is rejected by the
	// domain validator.
	resp = ts.api.Post("/api/v1/contacts", map[string]any{
		"event_key":    10,
		"person_key":   20,
		"person_label": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, string(domainerrors.CodeValidation), apiErr.Code)
}

func TestUpdateContact_Handler(t *testing.T) {
	ts := setupTestServer(t)
	contact := createTestContact(t, ts, 10, 20)

	// Note only; tags untouched.
	resp := ts.api.Patch(fmt.Sprintf("/api/v1/contacts/%d", contact.ID), map[string]any{
		"note": "updated",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated ContactResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "updated", updated.Note)
	assert.Equal(t, []string{"speaker"}, updated.Tags)

	// Empty tags array clears them.
	resp = ts.api.Patch(fmt.Sprintf("/api/v1/contacts/%d", contact.ID), map[string]any{
		"tags": []string{},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Empty(t, updated.Tags)
	assert.Equal(t, "updated", updated.Note)
}

func TestDeleteContact_Handler(t *testing.T) {
	ts := setupTestServer(t)
	contact := createTestContact(t, ts, 10, 20)

	resp := ts.api.Delete(fmt.Sprintf("/api/v1/contacts/%d", contact.ID))
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/contacts/%d", contact.ID))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The pair is reusable after deletion.
	createTestContact(t, ts, 10, 20)
}

func TestListContacts_Handler(t *testing.T) {
	ts := setupTestServer(t)
	createTestContact(t, ts, 10, 20)
	createTestContact(t, ts, 11, 20)

	resp := ts.api.Get("/api/v1/contacts?event=10")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ContactListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Contacts, 1)

	resp = ts.api.Get("/api/v1/contacts")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Contacts, 2)
}
