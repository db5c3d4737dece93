package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/errors"
	"github.com/meetlogapp/meetlog-server/internal/remote"
)

// PeopleSource is the remote people directory. *remote.Client satisfies
// it.
type PeopleSource interface {
	SearchPeople(ctx context.Context, nickname string, start, count int) ([]remote.PersonRecord, error)
}

// PeopleService searches the remote people directory. Results are never
// cached locally; a person only persists as part of a contact record.
type PeopleService struct {
	source PeopleSource
	logger *slog.Logger
}

func NewPeopleService(source PeopleSource, logger *slog.Logger) *PeopleService {
	return &PeopleService{
		source: source,
		logger: logger.With("service", "people"),
	}
}

// Search finds people by nickname. The query must be non-empty; paging
// bounds are clamped by the remote client.
func (s *PeopleService) Search(ctx context.Context, query string, start, count int) ([]*domain.Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Validation("search query must not be empty")
	}

	records, err := s.source.SearchPeople(ctx, query, start, count)
	if err != nil {
		return nil, err
	}
	return remote.MapPeople(records), nil
}
