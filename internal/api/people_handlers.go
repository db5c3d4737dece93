package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meetlogapp/meetlog-server/internal/domain"
)

func (s *Server) registerPeopleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPeople",
		Method:      http.MethodGet,
		Path:        "/api/v1/people",
		Summary:     "Search people",
		Description: "Searches the remote people directory by nickname. Results are not cached locally.",
		Tags:        []string{"People"},
	}, s.handleSearchPeople)
}

// PersonResponse contains person data in API responses.
type PersonResponse struct {
	PersonKey   int64  `json:"person_key" doc:"Person identifier"`
	Nickname    string `json:"nickname" doc:"Unique nickname"`
	DisplayName string `json:"display_name,omitempty" doc:"Display name, absent if unset"`
	Label       string `json:"label" doc:"Preferred display label"`
	Bio         string `json:"bio,omitempty" doc:"Short bio"`
	AvatarURL   string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	ProfileURL  string `json:"profile_url" doc:"Profile page URL"`
}

// PeopleListResponse contains a people search result page.
type PeopleListResponse struct {
	People []PersonResponse `json:"people" doc:"Matching people"`
}

// PeopleListOutput wraps the people search result for Huma.
type PeopleListOutput struct {
	Body PeopleListResponse
}

// SearchPeopleInput carries the people search query parameters.
type SearchPeopleInput struct {
	Query string `query:"q" required:"true" doc:"Nickname search query"`
	Start int    `query:"start" default:"1" doc:"1-based result offset"`
	Count int    `query:"count" default:"25" doc:"Page size, clamped to 100"`
}

func toPersonResponse(p *domain.Person) PersonResponse {
	return PersonResponse{
		PersonKey:   p.PersonKey,
		Nickname:    p.Nickname,
		DisplayName: p.DisplayName,
		Label:       p.Label(),
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		ProfileURL:  p.ProfileURL,
	}
}

func (s *Server) handleSearchPeople(ctx context.Context, input *SearchPeopleInput) (*PeopleListOutput, error) {
	people, err := s.services.People.Search(ctx, input.Query, input.Start, input.Count)
	if err != nil {
		return nil, err
	}

	out := make([]PersonResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	return &PeopleListOutput{Body: PeopleListResponse{People: out}}, nil
}
