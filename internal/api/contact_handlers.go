package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/service"
)

func (s *Server) registerContactRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createContact",
		Method:        http.MethodPost,
		Path:          "/api/v1/contacts",
		Summary:       "Create contact",
		Description:   "Records a contact made with a person at an event. At most one contact may exist per (event, person) pair; a second attempt returns 409.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateContact)

	huma.Register(s.api, huma.Operation{
		OperationID: "listContacts",
		Method:      http.MethodGet,
		Path:        "/api/v1/contacts",
		Summary:     "List contacts",
		Description: "Lists contacts, newest first. Pass event to restrict to one event.",
		Tags:        []string{"Contacts"},
	}, s.handleListContacts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getContact",
		Method:      http.MethodGet,
		Path:        "/api/v1/contacts/{id}",
		Summary:     "Get contact",
		Tags:        []string{"Contacts"},
	}, s.handleGetContact)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateContact",
		Method:      http.MethodPatch,
		Path:        "/api/v1/contacts/{id}",
		Summary:     "Update contact",
		Description: "Updates a contact's note and/or tags. Omitted fields are left untouched; an empty tags array clears the tags.",
		Tags:        []string{"Contacts"},
	}, s.handleUpdateContact)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteContact",
		Method:        http.MethodDelete,
		Path:          "/api/v1/contacts/{id}",
		Summary:       "Delete contact",
		Description:   "Deletes a contact, freeing its (event, person) pair for a future create.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteContact)
}

// === DTOs ===

// ContactResponse contains contact data in API responses.
type ContactResponse struct {
	ID          int64     `json:"id" doc:"Contact identifier"`
	EventKey    int64     `json:"event_key" doc:"Event the contact was made at"`
	PersonKey   int64     `json:"person_key" doc:"Person the contact was made with"`
	PersonLabel string    `json:"person_label" doc:"Person display label at creation time"`
	Note        string    `json:"note,omitempty" doc:"Free-form note"`
	Tags        []string  `json:"tags,omitempty" doc:"Normalized tag slugs"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

func toContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		EventKey:    c.EventKey,
		PersonKey:   c.PersonKey,
		PersonLabel: c.PersonLabel,
		Note:        c.Note,
		Tags:        c.Tags,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ContactOutput wraps a single contact for Huma.
type ContactOutput struct {
	Body ContactResponse
}

// ContactListResponse contains a contact listing.
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts" doc:"Contacts, newest first"`
}

// ContactListOutput wraps the contact listing for Huma.
type ContactListOutput struct {
	Body ContactListResponse
}

// CreateContactRequest is the request body for contact creation.
type CreateContactRequest struct {
	EventKey    int64    `json:"event_key" validate:"required,gt=0" doc:"Event key"`
	PersonKey   int64    `json:"person_key" validate:"required,gt=0" doc:"Person key"`
	PersonLabel string   `json:"person_label" validate:"required,max=200" doc:"Person display label"`
	Note        string   `json:"note,omitempty" validate:"max=4000" doc:"Free-form note"`
	Tags        []string `json:"tags,omitempty" validate:"max=32,dive,max=100" doc:"Tag labels, normalized server-side"`
}

// CreateContactInput wraps the create request for Huma.
type CreateContactInput struct {
	Body CreateContactRequest
}

// UpdateContactRequest is the request body for contact updates. Pointer
// fields distinguish "leave untouched" (absent) from "set" (present).
type UpdateContactRequest struct {
	Note *string   `json:"note,omitempty" validate:"omitempty,max=4000" doc:"Replacement note"`
	Tags *[]string `json:"tags,omitempty" validate:"omitempty,max=32,dive,max=100" doc:"Replacement tag labels; empty array clears"`
}

// UpdateContactInput wraps the update request for Huma.
type UpdateContactInput struct {
	ID   int64 `path:"id" doc:"Contact identifier"`
	Body UpdateContactRequest
}

// ContactIDInput carries the contact id path parameter.
type ContactIDInput struct {
	ID int64 `path:"id" doc:"Contact identifier"`
}

// ListContactsInput carries the contact listing query parameters.
type ListContactsInput struct {
	EventKey int64 `query:"event" doc:"Restrict the listing to one event"`
}

// === Handlers ===

func (s *Server) handleCreateContact(ctx context.Context, input *CreateContactInput) (*ContactOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	contact, err := s.services.Contact.Create(ctx, service.CreateContactInput{
		EventKey:    input.Body.EventKey,
		PersonKey:   input.Body.PersonKey,
		PersonLabel: input.Body.PersonLabel,
		Note:        input.Body.Note,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: toContactResponse(contact)}, nil
}

func (s *Server) handleListContacts(ctx context.Context, input *ListContactsInput) (*ContactListOutput, error) {
	contacts, err := s.services.Contact.List(ctx, input.EventKey)
	if err != nil {
		return nil, err
	}

	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	return &ContactListOutput{Body: ContactListResponse{Contacts: out}}, nil
}

func (s *Server) handleGetContact(ctx context.Context, input *ContactIDInput) (*ContactOutput, error) {
	contact, err := s.services.Contact.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: toContactResponse(contact)}, nil
}

func (s *Server) handleUpdateContact(ctx context.Context, input *UpdateContactInput) (*ContactOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var tags []string
	if input.Body.Tags != nil {
		tags = *input.Body.Tags
		if tags == nil {
			tags = []string{}
		}
	}

	contact, err := s.services.Contact.Update(ctx, input.ID, input.Body.Note, tags)
	if err != nil {
		return nil, err
	}
	return &ContactOutput{Body: toContactResponse(contact)}, nil
}

func (s *Server) handleDeleteContact(ctx context.Context, input *ContactIDInput) (*struct{}, error) {
	if err := s.services.Contact.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
