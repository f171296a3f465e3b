package validation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/validation"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Kind     string `validate:"omitempty,oneof=a b"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Internal string `json:"-" validate:"required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name  string
		input sample
		want  map[string]string
	}{
		{
			name:  "Valid",
			input: sample{Name: "ok", Kind: "a", Internal: "x"},
			want:  nil,
		},
		{
			name:  "MissingRequired",
			input: sample{},
			want: map[string]string{
				"name":     "is required",
				"internal": "is required",
			},
		},
		{
			name:  "TooLongAndBadEnum",
			input: sample{Name: "toolong", Kind: "c", Email: "nope", Internal: "x"},
			want: map[string]string{
				"name":  "must be at most 5 characters",
				"kind":  "must be one of: a b",
				"email": "must be a valid email address",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := validation.Struct(tt.input)

			if tt.want == nil {
				assert.NoError(t, verr.Err())
				return
			}

			require.Error(t, verr.Err())
			assert.Equal(t, tt.want, verr.Fields)
		})
	}
}

func TestError(t *testing.T) {
	e := validation.New("amount", "must be positive")
	e.Add("amount", "ignored")
	e.Add("date", "is required")

	assert.Equal(t, "validation failed: amount: must be positive; date: is required", e.Error())

	wrapped := fmt.Errorf("creating transaction: %w", e)
	assert.True(t, validation.Is(wrapped))
	assert.False(t, validation.Is(errors.New("boom")))

	var empty *validation.Error
	assert.NoError(t, empty.Err())
}
