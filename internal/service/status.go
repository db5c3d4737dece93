package service

import (
	"context"
)

// StatusKind is the phase of a streaming fetch.
type StatusKind string

const (
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is one update in a streaming fetch: a loading marker, a
// success carrying events, or a terminal error.
type Status struct {
	Kind   StatusKind
	Result *FetchResult // set when Kind == StatusSuccess
	Err    error        // set when Kind == StatusError
}

// FetchStream runs a fetch as a sequence of status updates and closes the
// channel when the sequence ends.
//
// Normal mode emits Loading, then cached events as an early Success when
// the cache has rows, then the network result. Once any Success has been
// emitted the stream never downgrades to Error: a late fetch failure is
// logged and the stream simply ends on the last good data.
//
// Forced mode skips the cache emission; the stream is Loading followed by
// exactly one Success or Error.
func (s *SyncService) FetchStream(ctx context.Context, ownerID string, forceRefresh bool) <-chan Status {
	// Capacity covers the longest sequence so the producer never blocks
	// on a slow consumer.
	out := make(chan Status, 3)

	go func() {
		defer close(out)

		emitted := false
		emit := func(st Status) bool {
			select {
			case out <- st:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(Status{Kind: StatusLoading}) {
			return
		}

		if !forceRefresh {
			if cached, err := s.store.ListEventsByOwner(ctx, ownerID); err == nil && len(cached) > 0 {
				if !emit(Status{Kind: StatusSuccess, Result: &FetchResult{Events: cached, Origin: OriginCache}}) {
					return
				}
				emitted = true
			}
		}

		result, err := s.Fetch(ctx, ownerID, forceRefresh)
		if err != nil {
			if emitted {
				s.logger.Warn("fetch failed after cached result was shown",
					"owner_id", ownerID,
					"error", err)
				return
			}
			emit(Status{Kind: StatusError, Err: err})
			return
		}
		if emitted && result.Origin == OriginCache {
			// Fetch fell back to the cache we already emitted.
			return
		}
		emit(Status{Kind: StatusSuccess, Result: result})
	}()

	return out
}
