package service

import (
	"strconv"
	"strings"

	"github.com/pageza/foodgram/backend/internal/repository"
)

// ParseRecipeFilter turns listing query parameters into a RecipeFilter.
// author is a user id, tags is a repeatable tag slug, and is_favorited and
// is_in_shopping_cart accept 1/true and 0/false. The relation filters are
// dropped when viewerID is nil.
func ParseRecipeFilter(query map[string][]string, viewerID *uint) (repository.RecipeFilter, error) {
	filter := repository.RecipeFilter{ViewerID: viewerID}
	fields := FieldErrors{}

	if raw := first(query, "author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields.Add("author", "A valid integer is required.")
		} else {
			authorID := uint(id)
			filter.AuthorID = &authorID
		}
	}

	for _, slug := range query["tags"] {
		if slug = strings.TrimSpace(slug); slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}

	if viewerID != nil {
		var err error
		if filter.IsFavorited, err = parseTriState(first(query, "is_favorited")); err != nil {
			fields.Add("is_favorited", "Must be one of 1, 0, true or false.")
		}
		if filter.InShoppingCart, err = parseTriState(first(query, "is_in_shopping_cart")); err != nil {
			fields.Add("is_in_shopping_cart", "Must be one of 1, 0, true or false.")
		}
	}

	if !fields.Empty() {
		return repository.RecipeFilter{}, NewValidationError(fields)
	}
	return filter, nil
}

// parseTriState returns nil for an absent value.
func parseTriState(raw string) (*bool, error) {
	var value bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "1", "true":
		value = true
	case "0", "false":
		value = false
	default:
		return nil, strconv.ErrSyntax
	}
	return &value, nil
}

func first(query map[string][]string, key string) string {
	if values := query[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
