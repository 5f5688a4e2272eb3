package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	maxRecipeNameLength = 200
	maxCookingTime      = 32000
	maxAmount           = 32000
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	favorites   repository.FavoriteRepository
	carts       repository.ShoppingCartRepository
	follows     repository.FollowRepository
	images      *ImageService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	favorites repository.FavoriteRepository,
	carts repository.ShoppingCartRepository,
	follows repository.FollowRepository,
	images *ImageService,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		favorites:   favorites,
		carts:       carts,
		follows:     follows,
		images:      images,
	}
}

// recipeInput is a request that passed validation.
type recipeInput struct {
	req   types.RecipeRequest
	image *decodedImage
}

// validate checks req and reports every violation at once. excludeID is
// the recipe being updated, or zero on create.
func (s *RecipeService) validate(ctx context.Context, authorID uint, req types.RecipeRequest, requireImage bool, excludeID uint) (*recipeInput, error) {
	fields := FieldErrors{}
	req.Name = strings.TrimSpace(req.Name)
	in := &recipeInput{req: req}

	switch {
	case req.Name == "":
		fields.Add("name", "This field is required.")
	case utf8.RuneCountInString(req.Name) > maxRecipeNameLength:
		fields.Add("name", "Ensure this field has no more than %d characters.", maxRecipeNameLength)
	default:
		taken, err := s.recipes.ExistsByAuthorAndName(ctx, authorID, req.Name, excludeID)
		if err != nil {
			return nil, NewInternalError("failed to check recipe name", err)
		}
		if taken {
			fields.Add("name", "You already have a recipe with this name.")
		}
	}

	if strings.TrimSpace(req.Text) == "" {
		fields.Add("text", "This field is required.")
	}

	switch {
	case req.CookingTime < 1:
		fields.Add("cooking_time", "Ensure this value is greater than or equal to 1.")
	case req.CookingTime > maxCookingTime:
		fields.Add("cooking_time", "Ensure this value is less than or equal to %d.", maxCookingTime)
	}

	switch {
	case req.Image != "":
		img, err := decodeDataURI(req.Image)
		if err != nil {
			fields.Add("image", "Upload a valid image encoded as a base64 data URI.")
		}
		in.image = img
	case requireImage:
		fields.Add("image", "This field is required.")
	}

	if err := s.validateTags(ctx, req.Tags, fields); err != nil {
		return nil, err
	}
	if err := s.validateIngredients(ctx, req.Ingredients, fields); err != nil {
		return nil, err
	}

	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}
	return in, nil
}

func (s *RecipeService) validateTags(ctx context.Context, ids []uint, fields FieldErrors) error {
	if len(ids) == 0 {
		fields.Add("tags", "At least one tag is required.")
		return nil
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			fields.Add("tags", "Tags must not repeat.")
			return nil
		}
		seen[id] = true
	}

	found, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return NewInternalError("failed to load tags", err)
	}
	existing := make(map[uint]bool, len(found))
	for _, t := range found {
		existing[t.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			fields.Add("tags", "Tag with id %d does not exist.", id)
		}
	}
	return nil
}

func (s *RecipeService) validateIngredients(ctx context.Context, lines []types.RecipeIngredientInput, fields FieldErrors) error {
	if len(lines) == 0 {
		fields.Add("ingredients", "At least one ingredient is required.")
		return nil
	}

	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if seen[line.ID] {
			fields.Add("ingredients", "Ingredients must not repeat.")
			return nil
		}
		seen[line.ID] = true
		ids = append(ids, line.ID)
		switch {
		case line.Amount < 1:
			fields.Add("ingredients", "Amount of ingredient %d must be at least 1.", line.ID)
		case line.Amount > maxAmount:
			fields.Add("ingredients", "Amount of ingredient %d must be at most %d.", line.ID, maxAmount)
		}
	}

	found, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return NewInternalError("failed to load ingredients", err)
	}
	existing := make(map[uint]bool, len(found))
	for _, i := range found {
		existing[i.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			fields.Add("ingredients", "Ingredient with id %d does not exist.", id)
		}
	}
	return nil
}

func applyInput(recipe *models.Recipe, in *recipeInput) {
	recipe.Name = in.req.Name
	recipe.Text = in.req.Text
	recipe.CookingTime = in.req.CookingTime
	recipe.Ingredients = make([]models.RecipeIngredient, 0, len(in.req.Ingredients))
	for _, line := range in.req.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{IngredientID: line.ID, Amount: line.Amount})
	}
	recipe.Tags = make([]models.RecipeTag, 0, len(in.req.Tags))
	for _, id := range in.req.Tags {
		recipe.Tags = append(recipe.Tags, models.RecipeTag{TagID: id})
	}
}

// CreateRecipe validates req, stores its image and persists the recipe.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest) (*types.RecipeView, error) {
	in, err := s.validate(ctx, authorID, req, true, 0)
	if err != nil {
		return nil, err
	}

	key, err := s.images.save(ctx, in.image)
	if err != nil {
		return nil, NewInternalError("failed to store image", err)
	}

	recipe := &models.Recipe{AuthorID: authorID, Image: key}
	applyInput(recipe, in)
	if err := s.recipes.Create(ctx, recipe); err != nil {
		s.images.remove(ctx, key)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError("a recipe with this name already exists")
		}
		return nil, NewInternalError("failed to create recipe", err)
	}

	log.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID, &authorID)
}

// UpdateRecipe replaces the recipe's fields, tags and ingredients. Only the
// author may update; the image is kept when req.Image is empty.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uint, req types.RecipeRequest) (*types.RecipeView, error) {
	recipe, err := s.loadOwned(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	in, err := s.validate(ctx, actorID, req, false, recipeID)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if in.image != nil {
		if newImage, err = s.images.save(ctx, in.image); err != nil {
			return nil, NewInternalError("failed to store image", err)
		}
		recipe.Image = newImage
	}

	applyInput(recipe, in)
	if err := s.recipes.Update(ctx, recipe); err != nil {
		s.images.remove(ctx, newImage)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError("a recipe with this name already exists")
		}
		return nil, NewInternalError("failed to update recipe", err)
	}
	if newImage != "" {
		s.images.remove(ctx, oldImage)
	}

	return s.GetRecipe(ctx, recipeID, &actorID)
}

// DeleteRecipe removes the recipe with its relations. Only the author may
// delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uint) error {
	recipe, err := s.loadOwned(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFoundError("recipe not found")
		}
		return NewInternalError("failed to delete recipe", err)
	}
	s.images.remove(ctx, recipe.Image)

	log.Ctx(ctx).Info().Uint("recipe_id", recipeID).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) loadOwned(ctx context.Context, actorID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("recipe not found")
		}
		return nil, NewInternalError("failed to load recipe", err)
	}
	if recipe.AuthorID != actorID {
		return nil, NewForbiddenError("only the author can change this recipe")
	}
	return recipe, nil
}

// GetRecipe returns the recipe as seen by viewerID (nil for anonymous).
func (s *RecipeService) GetRecipe(ctx context.Context, id uint, viewerID *uint) (*types.RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("recipe not found")
		}
		return nil, NewInternalError("failed to load recipe", err)
	}

	views, err := s.render(ctx, []models.Recipe{*recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListRecipes returns recipes matching filter, newest first, as seen by
// filter.ViewerID.
func (s *RecipeService) ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]types.RecipeView, error) {
	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, NewInternalError("failed to list recipes", err)
	}
	return s.render(ctx, recipes, filter.ViewerID)
}

func (s *RecipeService) render(ctx context.Context, recipes []models.Recipe, viewerID *uint) ([]types.RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	v, err := viewerState(ctx, viewerID, s.favorites, s.carts, s.follows, recipeIDs, authorIDs)
	if err != nil {
		return nil, NewInternalError("failed to load viewer state", err)
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, v.recipeView(&recipes[i], s.images.URL))
	}
	return views, nil
}
