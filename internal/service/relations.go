package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Relation names used in logs and metrics.
const (
	RelationFavorite     = "favorite"
	RelationShoppingCart = "shopping_cart"
	RelationFollow       = "follow"
)

// RelationService toggles favorites, cart membership and follows. Adding an
// existing pair is a conflict and removing a missing pair is not found.
type RelationService struct {
	recipes   repository.RecipeRepository
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	carts     repository.ShoppingCartRepository
	follows   repository.FollowRepository
	images    *ImageService
}

func NewRelationService(
	recipes repository.RecipeRepository,
	users repository.UserRepository,
	favorites repository.FavoriteRepository,
	carts repository.ShoppingCartRepository,
	follows repository.FollowRepository,
	images *ImageService,
) *RelationService {
	return &RelationService{
		recipes:   recipes,
		users:     users,
		favorites: favorites,
		carts:     carts,
		follows:   follows,
		images:    images,
	}
}

type recipeRelation struct {
	name       string
	repo       repository.RecipeRelationRepository
	existsMsg  string
	missingMsg string
}

func (s *RelationService) favorite() recipeRelation {
	return recipeRelation{RelationFavorite, s.favorites, "Recipe is already in favorites.", "Recipe is not in favorites."}
}

func (s *RelationService) cart() recipeRelation {
	return recipeRelation{RelationShoppingCart, s.carts, "Recipe is already in the shopping cart.", "Recipe is not in the shopping cart."}
}

func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uint) (*types.ShortRecipeView, error) {
	return s.addRecipe(ctx, s.favorite(), userID, recipeID)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeRecipe(ctx, s.favorite(), userID, recipeID)
}

func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uint) (*types.ShortRecipeView, error) {
	return s.addRecipe(ctx, s.cart(), userID, recipeID)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeRecipe(ctx, s.cart(), userID, recipeID)
}

func (s *RelationService) addRecipe(ctx context.Context, rel recipeRelation, userID, recipeID uint) (*types.ShortRecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("recipe not found")
		}
		return nil, NewInternalError("failed to load recipe", err)
	}

	exists, err := rel.repo.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, NewInternalError("failed to check "+rel.name, err)
	}
	if exists {
		return nil, NewConflictError(rel.existsMsg)
	}
	if err := rel.repo.Add(ctx, userID, recipeID); err != nil {
		// a concurrent add won the unique constraint
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError(rel.existsMsg)
		}
		return nil, NewInternalError("failed to add "+rel.name, err)
	}

	metrics.RecordRelationChange(rel.name, "add")
	log.Ctx(ctx).Debug().Str("relation", rel.name).Uint("user_id", userID).Uint("recipe_id", recipeID).Msg("relation added")

	view := shortRecipeView(recipe, s.images.URL)
	return &view, nil
}

func (s *RelationService) removeRecipe(ctx context.Context, rel recipeRelation, userID, recipeID uint) error {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return NewInternalError("failed to load recipe", err)
	}
	if !exists {
		return NewNotFoundError("recipe not found")
	}

	removed, err := rel.repo.Remove(ctx, userID, recipeID)
	if err != nil {
		return NewInternalError("failed to remove "+rel.name, err)
	}
	if !removed {
		return NewNotFoundError(rel.missingMsg)
	}

	metrics.RecordRelationChange(rel.name, "remove")
	return nil
}

// Follow subscribes userID to authorID and returns the author's
// subscription view with at most recipesLimit recipes (all when <= 0).
func (s *RelationService) Follow(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	if userID == authorID {
		return nil, NewBadRequestError("You cannot subscribe to yourself.")
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to load user", err)
	}

	exists, err := s.follows.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, NewInternalError("failed to check follow", err)
	}
	if exists {
		return nil, NewConflictError("You are already subscribed to this author.")
	}
	if err := s.follows.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError("You are already subscribed to this author.")
		}
		return nil, NewInternalError("failed to follow", err)
	}
	metrics.RecordRelationChange(RelationFollow, "add")

	views, err := s.subscriptionViews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RelationService) Unfollow(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return NewBadRequestError("You cannot unsubscribe from yourself.")
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFoundError("user not found")
		}
		return NewInternalError("failed to load user", err)
	}

	removed, err := s.follows.Remove(ctx, userID, authorID)
	if err != nil {
		return NewInternalError("failed to unfollow", err)
	}
	if !removed {
		return NewNotFoundError("You are not subscribed to this author.")
	}
	metrics.RecordRelationChange(RelationFollow, "remove")
	return nil
}

// Subscriptions lists the authors userID follows, in follow order.
func (s *RelationService) Subscriptions(ctx context.Context, userID uint, recipesLimit int) ([]types.SubscriptionView, error) {
	authors, err := s.follows.ListAuthors(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to list subscriptions", err)
	}
	return s.subscriptionViews(ctx, authors, recipesLimit)
}

// subscriptionViews renders followed authors; every author in the list is
// followed by the viewer by construction.
func (s *RelationService) subscriptionViews(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthor(ctx, ids)
	if err != nil {
		return nil, NewInternalError("failed to count recipes", err)
	}

	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, NewInternalError("failed to list author recipes", err)
		}
		short := make([]types.ShortRecipeView, 0, len(recipes))
		for j := range recipes {
			short = append(short, shortRecipeView(&recipes[j], s.images.URL))
		}
		views = append(views, types.SubscriptionView{
			UserView:     userView(&authors[i], true),
			Recipes:      short,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return views, nil
}
