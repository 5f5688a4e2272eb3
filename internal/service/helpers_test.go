package service_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// pngDataURI is a tiny payload that decodes to the PNG signature.
const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

type testEnv struct {
	db        *gorm.DB
	imageDir  string
	auth      *service.AuthService
	users     *service.UserService
	recipes   *service.RecipeService
	relations *service.RelationService
	shopping  *service.ShoppingListService
	reference *service.ReferenceService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	dir := t.TempDir()

	userRepo := repository.NewUserStore(db)
	recipeRepo := repository.NewRecipeStore(db)
	tagRepo := repository.NewTagStore(db)
	ingredientRepo := repository.NewIngredientStore(db)
	favorites := repository.NewFavoriteStore(db)
	carts := repository.NewShoppingCartStore(db)
	follows := repository.NewFollowStore(db)
	images := service.NewImageService(storage.NewLocalStore(dir, "/media"))

	return &testEnv{
		db:        db,
		imageDir:  dir,
		auth:      service.NewAuthService(userRepo, "test-secret", time.Hour, nil),
		users:     service.NewUserService(userRepo, follows),
		recipes:   service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favorites, carts, follows, images),
		relations: service.NewRelationService(recipeRepo, userRepo, favorites, carts, follows, images),
		shopping:  service.NewShoppingListService(carts),
		reference: service.NewReferenceService(tagRepo, ingredientRepo),
	}
}

func kindOf(err error) service.Kind {
	return service.KindOf(err)
}
