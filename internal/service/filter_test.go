package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
)

func TestParseRecipeFilter(t *testing.T) {
	viewer := uint(5)

	filter, err := service.ParseRecipeFilter(map[string][]string{
		"author":              {"3"},
		"tags":                {"lunch", " dinner ", ""},
		"is_favorited":        {"1"},
		"is_in_shopping_cart": {"false"},
	}, &viewer)
	require.NoError(t, err)

	require.NotNil(t, filter.AuthorID)
	assert.Equal(t, uint(3), *filter.AuthorID)
	assert.Equal(t, []string{"lunch", "dinner"}, filter.TagSlugs)
	require.NotNil(t, filter.IsFavorited)
	assert.True(t, *filter.IsFavorited)
	require.NotNil(t, filter.InShoppingCart)
	assert.False(t, *filter.InShoppingCart)
	assert.Equal(t, &viewer, filter.ViewerID)
}

func TestParseRecipeFilterAbsentValues(t *testing.T) {
	viewer := uint(5)
	filter, err := service.ParseRecipeFilter(map[string][]string{"is_favorited": {""}}, &viewer)
	require.NoError(t, err)
	assert.Nil(t, filter.AuthorID)
	assert.Nil(t, filter.IsFavorited)
	assert.Nil(t, filter.InShoppingCart)
	assert.Empty(t, filter.TagSlugs)
}

func TestParseRecipeFilterAnonymous(t *testing.T) {
	filter, err := service.ParseRecipeFilter(map[string][]string{
		"is_favorited":        {"true"},
		"is_in_shopping_cart": {"garbage"},
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, filter.IsFavorited)
	assert.Nil(t, filter.InShoppingCart)
	assert.Nil(t, filter.ViewerID)
}

func TestParseRecipeFilterInvalid(t *testing.T) {
	viewer := uint(1)
	_, err := service.ParseRecipeFilter(map[string][]string{
		"author":       {"abc"},
		"is_favorited": {"maybe"},
	}, &viewer)

	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, service.KindValidation, se.Kind)
	assert.Contains(t, se.Fields, "author")
	assert.Contains(t, se.Fields, "is_favorited")
}
