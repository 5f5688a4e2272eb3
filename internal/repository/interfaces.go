package repository

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// TagRepository stores recipe tags.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	GetOrCreate(ctx context.Context, tag *models.Tag) (created bool, err error)
}

// IngredientRepository stores the ingredient catalogue.
type IngredientRepository interface {
	Search(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	GetOrCreate(ctx context.Context, name, unit string) (created bool, err error)
}

// RecipeFilter narrows a recipe listing. Nil fields do not filter.
// IsFavorited and InShoppingCart are evaluated against ViewerID and are
// ignored when ViewerID is nil.
type RecipeFilter struct {
	AuthorID       *uint
	TagSlugs       []string
	ViewerID       *uint
	IsFavorited    *bool
	InShoppingCart *bool
}

// RecipeRepository stores recipes together with their ingredient and tag rows.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByAuthorAndName(ctx context.Context, authorID uint, name string, excludeID uint) (bool, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}

// RecipeRelationRepository is a presence-only (user, recipe) relation.
type RecipeRelationRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// RecipeIDs returns the subset of recipeIDs related to userID.
	RecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// FavoriteRepository stores favorites.
type FavoriteRepository interface {
	RecipeRelationRepository
}

// CartRow is one ingredient line of one recipe in a user's cart.
type CartRow struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingCartRepository stores cart membership and expands it to
// ingredient rows.
type ShoppingCartRepository interface {
	RecipeRelationRepository
	// IngredientRows lists every ingredient line across the user's cart,
	// ordered by cart row then recipe line.
	IngredientRows(ctx context.Context, userID uint) ([]CartRow, error)
}

// FollowRepository stores the follow graph.
type FollowRepository interface {
	Add(ctx context.Context, userID, authorID uint) error
	Remove(ctx context.Context, userID, authorID uint) (bool, error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	// AuthorIDs returns the subset of authorIDs followed by userID.
	AuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	// ListAuthors returns followed authors in follow order.
	ListAuthors(ctx context.Context, userID uint) ([]models.User, error)
}
