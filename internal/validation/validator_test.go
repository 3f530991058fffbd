package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
	"github.com/readingclub/readingclub-server/internal/validation"
)

type updateRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,book_status"`
	Limit  int     `json:"limit" validate:"gte=0,lte=100"`
}

type searchRequest struct {
	Query string `json:"q" validate:"required"`
}

func strPtr(s string) *string { return &s }

func TestValidator_BookStatus(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		status  *string
		wantErr bool
	}{
		{"absent", nil, false},
		{"candidate", strPtr("candidate"), false},
		{"reading", strPtr("reading"), false},
		{"finished", strPtr("finished"), false},
		{"unknown", strPtr("abandoned"), true},
		{"wrong case", strPtr("Reading"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(updateRequest{Status: tt.status})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var derr *domainerrors.Error
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, http.StatusBadRequest, derr.HTTPStatus())
			assert.Equal(t, "status must be one of: candidate, reading, finished", derr.Message)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(searchRequest{})
	require.Error(t, err)

	// Uses the JSON tag name "q", not the struct field name.
	assert.Equal(t, "q is required", err.Error())
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestValidator_Details(t *testing.T) {
	v := validation.New()

	err := v.Validate(updateRequest{Status: strPtr("nope"), Limit: 500})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, map[string]string{
		"limit":  "must be less than or equal to 100",
		"status": "must be one of: candidate, reading, finished",
	}, derr.Details)
	assert.Contains(t, derr.Message, "limit", "first field alphabetically")
}
