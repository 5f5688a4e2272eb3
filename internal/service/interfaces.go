package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uint, current, next string) error
}

// IUserService defines the interface for user read operations
type IUserService interface {
	ListUsers(ctx context.Context, viewerID *uint) ([]types.UserView, error)
	GetUser(ctx context.Context, id uint, viewerID *uint) (*types.UserView, error)
	Me(ctx context.Context, userID uint) (*types.UserView, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest) (*types.RecipeView, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uint, req types.RecipeRequest) (*types.RecipeView, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uint) error
	GetRecipe(ctx context.Context, id uint, viewerID *uint) (*types.RecipeView, error)
	ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]types.RecipeView, error)
}

// IRelationService defines the interface for favorite, cart and follow toggles
type IRelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*types.ShortRecipeView, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToCart(ctx context.Context, userID, recipeID uint) (*types.ShortRecipeView, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
	Follow(ctx context.Context, userID, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unfollow(ctx context.Context, userID, authorID uint) error
	Subscriptions(ctx context.Context, userID uint, recipesLimit int) ([]types.SubscriptionView, error)
}

// IShoppingListService defines the interface for shopping list export
type IShoppingListService interface {
	Build(ctx context.Context, userID uint) ([]ShoppingItem, error)
}

// IReferenceService defines the interface for tag and ingredient lookups
type IReferenceService interface {
	ListTags(ctx context.Context) ([]types.TagView, error)
	GetTag(ctx context.Context, id uint) (*types.TagView, error)
	SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientView, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error)
}
