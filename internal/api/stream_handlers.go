package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/live"
)

// registerStreamRoutes wires the SSE endpoint directly on the chi router;
// a long-lived event stream does not fit the typed request/response model
// the rest of the API uses.
func (s *Server) registerStreamRoutes() {
	s.router.Get("/api/v1/stream", s.handleStream)
}

// handleStream serves live query results over SSE. The client names a
// query with scope (events or contacts), owner, and event parameters; it
// receives a snapshot event immediately and a fresh one after every
// relevant store change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Context().Err() != nil {
		return
	}

	query, err := parseStreamQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		s.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sub, err := s.registry.Subscribe(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer sub.Close()

	clientLogger := s.logger.With(slog.String("subscription_id", sub.ID))
	clientLogger.Info("stream opened", slog.String("scope", string(query.Scope)))

	heartbeatTicker := time.NewTicker(30 * time.Second)
	defer heartbeatTicker.Stop()

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				clientLogger.Info("subscription closed")
				return
			}
			if err := s.sendEvent(w, rc, "snapshot", snap); err != nil {
				// Client disconnect is normal, not an error condition.
				clientLogger.Info("client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			if err := s.sendEvent(w, rc, "heartbeat", map[string]string{"ts": time.Now().UTC().Format(time.RFC3339)}); err != nil {
				clientLogger.Info("client disconnected during heartbeat")
				return
			}

		case <-r.Context().Done():
			clientLogger.Info("client context canceled")
			return
		}
	}
}

func parseStreamQuery(r *http.Request) (live.Query, error) {
	q := live.Query{
		Scope:   live.Scope(r.URL.Query().Get("scope")),
		OwnerID: r.URL.Query().Get("owner"),
	}
	if raw := r.URL.Query().Get("event"); raw != "" {
		key, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return live.Query{}, fmt.Errorf("invalid event parameter: %q", raw)
		}
		q.EventKey = key
	}
	return q, q.Validate()
}

// sendEvent writes an SSE event to the response writer.
func (s *Server) sendEvent(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", eventType); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset the write deadline after each successful write so an idle but
	// healthy connection is not torn down.
	return rc.SetWriteDeadline(time.Now().Add(60 * time.Second))
}
