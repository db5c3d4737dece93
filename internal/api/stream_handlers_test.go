package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetlogapp/meetlog-server/internal/domain"
)

func TestStream_SnapshotOnConnectAndChange(t *testing.T) {
	ts := setupTestServer(t)
	srv := httptest.NewServer(ts.Server)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/stream?scope=contacts&event=7", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		t.Helper()
		var eventType, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				eventType = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && eventType != "":
				return eventType, data
			}
		}
	}

	// Initial snapshot arrives immediately.
	eventType, data := readEvent()
	assert.Equal(t, "snapshot", eventType)
	assert.Contains(t, data, `"scope":"contacts"`)

	// A matching write produces a fresh snapshot.
	now := time.Now()
	_, err = ts.store.InsertContact(context.Background(), &domain.Contact{
		EventKey:    7,
		PersonKey:   100,
		PersonLabel: "Alex",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	eventType, data = readEvent()
	assert.Equal(t, "snapshot", eventType)
	assert.Contains(t, data, `"person_key":100`)
}

func TestStream_RejectsInvalidQuery(t *testing.T) {
	ts := setupTestServer(t)
	srv := httptest.NewServer(ts.Server)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/stream?scope=events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
