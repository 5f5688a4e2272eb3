package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FirstName string `validate:"required"`
	Slug      string `validate:"required,slug"`
	Username  string `validate:"required,username"`
	Color     string `validate:"required,hexcolor"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{FirstName: "a", Slug: "break-fast_1", Username: "john.doe+1@x", Color: "#E26C2D"}))

	err := v.Struct(sample{Slug: "not a slug", Username: "no spaces", Color: "red"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, []string{"This field is required."}, fields["first_name"])
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "color")
}

func TestFieldErrorsFallback(t *testing.T) {
	fields := FieldErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string][]string{"non_field_errors": {"unexpected EOF"}}, fields)
}

func TestFieldErrorsJSONTypeMismatch(t *testing.T) {
	type line struct {
		ID     uint `json:"id"`
		Amount int  `json:"amount"`
	}
	type payload struct {
		CookingTime int    `json:"cooking_time"`
		Ingredients []line `json:"ingredients"`
	}

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"top-level integer", `{"cooking_time":"soon"}`, "cooking_time", "A valid integer is required."},
		{"nested integer", `{"ingredients":[{"id":1,"amount":"lots"}]}`, "ingredients", "A valid integer is required."},
		{"list expected", `{"ingredients":"salt"}`, "ingredients", "Expected a list of items."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tt.body), &p)
			require.Error(t, err)

			fields := FieldErrors(err)
			assert.Equal(t, map[string][]string{tt.field: {tt.msg}}, fields)
		})
	}
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "cooking_time", snakeCase("CookingTime"))
	assert.Equal(t, "email", snakeCase("Email"))
}
