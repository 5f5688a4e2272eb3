package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

func TestPostgresRecipeLifecycle(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	users := repository.NewUserStore(db)
	recipes := repository.NewRecipeStore(db)
	tags := repository.NewTagStore(db)
	ingredients := repository.NewIngredientStore(db)
	favorites := repository.NewFavoriteStore(db)
	carts := repository.NewShoppingCartStore(db)
	follows := repository.NewFollowStore(db)
	images := service.NewImageService(storage.NewLocalStore(t.TempDir(), "/media"))

	auth := service.NewAuthService(users, "integration-secret", time.Hour, nil)
	recipeService := service.NewRecipeService(recipes, tags, ingredients, favorites, carts, follows, images)
	relations := service.NewRelationService(recipes, users, favorites, carts, follows, images)
	shopping := service.NewShoppingListService(carts)

	author, err := auth.Register(ctx, types.RegisterRequest{
		Email: "chef@example.com", Username: "chef", FirstName: "Chef", LastName: "Cook", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	eater := testhelpers.CreateUser(t, db, "eater")

	lunch := testhelpers.CreateTag(t, db, "Обед", "#49B64E", "lunch")
	salt := testhelpers.CreateIngredient(t, db, "Соль", "г")
	milk := testhelpers.CreateIngredient(t, db, "молоко", "мл")

	found, err := ingredients.Search(ctx, "мол")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milk.ID, found[0].ID)

	req := types.RecipeRequest{
		Name:        "Каша",
		Text:        "Сварить.",
		Image:       pngDataURI,
		CookingTime: 15,
		Tags:        []uint{lunch.ID},
		Ingredients: []types.RecipeIngredientInput{{ID: salt.ID, Amount: 2}, {ID: milk.ID, Amount: 300}},
	}
	created, err := recipeService.CreateRecipe(ctx, author.ID, req)
	require.NoError(t, err)

	_, err = recipeService.CreateRecipe(ctx, author.ID, req)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = relations.AddToCart(ctx, eater.ID, created.ID)
	require.NoError(t, err)
	items, err := shopping.Build(ctx, eater.ID)
	require.NoError(t, err)
	assert.Equal(t, "Соль (г) — 2\nмолоко (мл) — 300\n", service.Render(items))

	eaterID := eater.ID
	isFavorited := false
	list, err := recipeService.ListRecipes(ctx, repository.RecipeFilter{ViewerID: &eaterID, IsFavorited: &isFavorited})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsInShoppingCart)

	require.NoError(t, recipeService.DeleteRecipe(ctx, author.ID, created.ID))
	items, err = shopping.Build(ctx, eater.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPostgresConcurrentFavoriteYieldsOneRow(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	fan := testhelpers.CreateUser(t, db, "fan")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "soup", []testhelpers.Line{{Ingredient: salt, Amount: 1}})

	relations := service.NewRelationService(
		repository.NewRecipeStore(db),
		repository.NewUserStore(db),
		repository.NewFavoriteStore(db),
		repository.NewShoppingCartStore(db),
		repository.NewFollowStore(db),
		service.NewImageService(storage.NewLocalStore(t.TempDir(), "/media")),
	)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = relations.AddFavorite(ctx, fan.ID, recipe.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, service.KindConflict, service.KindOf(err), err)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Table("favorites").Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
