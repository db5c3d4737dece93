package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/meetlogapp/meetlog-server/internal/errors"
	"github.com/meetlogapp/meetlog-server/internal/validation"
)

type testRequest struct {
	EventKey  int64  `json:"event_key" validate:"required,gt=0"`
	PersonKey int64  `json:"person_key" validate:"required,gt=0"`
	Label     string `json:"label" validate:"required,max=200"`
	Note      string `json:"note" validate:"max=4000"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{
		EventKey:  10,
		PersonKey: 20,
		Label:     "Alex",
		Note:      "met at the door",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
	}{
		{
			name:      "missing event key",
			req:       testRequest{PersonKey: 20, Label: "Alex"},
			wantField: "event_key",
		},
		{
			name:      "missing label",
			req:       testRequest{EventKey: 10, PersonKey: 20},
			wantField: "label",
		},
		{
			name:      "note too long",
			req:       testRequest{EventKey: 10, PersonKey: 20, Label: "Alex", Note: string(make([]byte, 4001))},
			wantField: "note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			assert.ErrorAs(t, err, &domainErr)
			fields, ok := domainErr.Details.(map[string]string)
			assert.True(t, ok)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
