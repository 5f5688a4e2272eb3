package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ReferenceService serves the read-only tag and ingredient catalogues.
type ReferenceService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

func NewReferenceService(tags repository.TagRepository, ingredients repository.IngredientRepository) *ReferenceService {
	return &ReferenceService{tags: tags, ingredients: ingredients}
}

func (s *ReferenceService) ListTags(ctx context.Context) ([]types.TagView, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list tags", err)
	}
	views := make([]types.TagView, 0, len(tags))
	for i := range tags {
		views = append(views, tagView(&tags[i]))
	}
	return views, nil
}

func (s *ReferenceService) GetTag(ctx context.Context, id uint) (*types.TagView, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("tag not found")
		}
		return nil, NewInternalError("failed to load tag", err)
	}
	view := tagView(tag)
	return &view, nil
}

// SearchIngredients returns ingredients whose name starts with prefix,
// ignoring case, ordered by name.
func (s *ReferenceService) SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientView, error) {
	ingredients, err := s.ingredients.Search(ctx, prefix)
	if err != nil {
		return nil, NewInternalError("failed to search ingredients", err)
	}
	views := make([]types.IngredientView, 0, len(ingredients))
	for i := range ingredients {
		views = append(views, ingredientView(&ingredients[i]))
	}
	return views, nil
}

func (s *ReferenceService) GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("ingredient not found")
		}
		return nil, NewInternalError("failed to load ingredient", err)
	}
	view := ingredientView(ingredient)
	return &view, nil
}
