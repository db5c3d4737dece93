package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/service"
)

func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEvents",
		Method:      http.MethodGet,
		Path:        "/api/v1/events",
		Summary:     "List events",
		Description: "Fetches the event listing from the remote service, updating the local cache. On a recoverable fetch failure, previously cached events are served instead. Pass refresh=true to clear the cache and force a full re-fetch with no fallback.",
		Tags:        []string{"Events"},
	}, s.handleListEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCachedEvents",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/cached",
		Summary:     "List cached events",
		Description: "Returns locally cached events without touching the network.",
		Tags:        []string{"Events"},
	}, s.handleListCachedEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEvent",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{key}",
		Summary:     "Get event",
		Description: "Resolves one event by its key, cache first, then the remote listing.",
		Tags:        []string{"Events"},
	}, s.handleGetEvent)
}

// === DTOs ===

// EventResponse contains event data in API responses.
type EventResponse struct {
	EventKey  int64      `json:"event_key" doc:"Externally-assigned event identifier"`
	Title     string     `json:"title" doc:"Event title"`
	StartedAt *time.Time `json:"started_at,omitempty" doc:"Start time, absent if unscheduled"`
	EndedAt   *time.Time `json:"ended_at,omitempty" doc:"End time, absent if open-ended"`
	Place     string     `json:"place,omitempty" doc:"Venue or address"`
	Organizer string     `json:"organizer,omitempty" doc:"Organizer display name"`
	Accepted  int        `json:"accepted" doc:"Accepted participant count"`
	Waiting   int        `json:"waiting" doc:"Waitlisted participant count"`
	Limit     *int       `json:"limit,omitempty" doc:"Participant limit, absent if unlimited"`
	URL       string     `json:"url" doc:"Event page URL"`
}

func toEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		EventKey:  e.EventKey,
		Title:     e.Title,
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
		Place:     e.Place,
		Organizer: e.Organizer,
		Accepted:  e.Accepted,
		Waiting:   e.Waiting,
		Limit:     e.Limit,
		URL:       e.URL,
	}
}

func toEventResponses(events []*domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

// EventListResponse contains an event listing plus its provenance.
type EventListResponse struct {
	Events []EventResponse `json:"events" doc:"Events, newest first"`
	Origin string          `json:"origin" doc:"Where the listing came from: network or cache"`
}

// EventListOutput wraps the event listing for Huma.
type EventListOutput struct {
	Body EventListResponse
}

// ListEventsInput carries the listing query parameters.
type ListEventsInput struct {
	OwnerID string `query:"owner" required:"true" doc:"Listing owner identifier"`
	Refresh bool   `query:"refresh" doc:"Clear the cache and force a full re-fetch"`
}

// CachedEventsInput carries the cached-listing query parameters.
type CachedEventsInput struct {
	OwnerID string `query:"owner" required:"true" doc:"Listing owner identifier"`
}

// GetEventInput carries the event key path parameter.
type GetEventInput struct {
	Key int64 `path:"key" doc:"Event key"`
}

// EventOutput wraps a single event for Huma.
type EventOutput struct {
	Body EventResponse
}

// === Handlers ===

func (s *Server) handleListEvents(ctx context.Context, input *ListEventsInput) (*EventListOutput, error) {
	result, err := s.services.Sync.Fetch(ctx, input.OwnerID, input.Refresh)
	if err != nil {
		return nil, err
	}

	return &EventListOutput{Body: EventListResponse{
		Events: toEventResponses(result.Events),
		Origin: string(result.Origin),
	}}, nil
}

func (s *Server) handleListCachedEvents(ctx context.Context, input *CachedEventsInput) (*EventListOutput, error) {
	events, err := s.services.Sync.PeekCached(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	return &EventListOutput{Body: EventListResponse{
		Events: toEventResponses(events),
		Origin: string(service.OriginCache),
	}}, nil
}

func (s *Server) handleGetEvent(ctx context.Context, input *GetEventInput) (*EventOutput, error) {
	event, err := s.services.Sync.GetEvent(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	return &EventOutput{Body: toEventResponse(event)}, nil
}
