package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFavoriteToggleIdempotenceOfIntent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, env.db, "alice")
	reader := testhelpers.CreateUser(t, env.db, "bob")
	soup := testhelpers.CreateRecipe(t, env.db, author, "Soup", nil)

	view, err := env.relations.AddFavorite(ctx, reader.ID, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, soup.ID, view.ID)
	assert.Equal(t, "Soup", view.Name)
	assert.Equal(t, "/media/recipes/images/Soup.png", view.Image)

	_, err = env.relations.AddFavorite(ctx, reader.ID, soup.ID)
	assert.Equal(t, service.KindConflict, kindOf(err))

	var count int64
	require.NoError(t, env.db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.relations.RemoveFavorite(ctx, reader.ID, soup.ID))
	err = env.relations.RemoveFavorite(ctx, reader.ID, soup.ID)
	assert.Equal(t, service.KindNotFound, kindOf(err))
}

func TestCartToggle(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, env.db, "alice")
	soup := testhelpers.CreateRecipe(t, env.db, author, "Soup", nil)

	_, err := env.relations.AddToCart(ctx, author.ID, soup.ID)
	require.NoError(t, err)
	_, err = env.relations.AddToCart(ctx, author.ID, soup.ID)
	assert.Equal(t, service.KindConflict, kindOf(err))

	require.NoError(t, env.relations.RemoveFromCart(ctx, author.ID, soup.ID))
	assert.Equal(t, service.KindNotFound, kindOf(env.relations.RemoveFromCart(ctx, author.ID, soup.ID)))
}

func TestToggleMissingRecipe(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "alice")

	_, err := env.relations.AddFavorite(ctx, user.ID, 404)
	assert.Equal(t, service.KindNotFound, kindOf(err))
	assert.Equal(t, service.KindNotFound, kindOf(env.relations.RemoveFromCart(ctx, user.ID, 404)))
}

func TestFavoriteRaceReportsConflict(t *testing.T) {
	ctx := context.Background()
	recipes := new(mocks.MockRecipeRepository)
	favorites := new(mocks.MockRecipeRelationRepository)

	recipes.On("GetByID", ctx, uint(1)).Return(&models.Recipe{ID: 1, Name: "Soup"}, nil)
	favorites.On("Exists", ctx, uint(2), uint(1)).Return(false, nil)
	favorites.On("Add", ctx, uint(2), uint(1)).Return(repository.ErrDuplicate)

	images := service.NewImageService(new(mocks.MockImageStore))
	svc := service.NewRelationService(recipes, nil, favorites, nil, nil, images)

	_, err := svc.AddFavorite(ctx, 2, 1)
	assert.Equal(t, service.KindConflict, kindOf(err))
	favorites.AssertExpectations(t)
}

func TestFollow(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	testhelpers.CreateRecipe(t, env.db, bob, "One", nil)
	testhelpers.CreateRecipe(t, env.db, bob, "Two", nil)
	testhelpers.CreateRecipe(t, env.db, bob, "Three", nil)

	_, err := env.relations.Follow(ctx, alice.ID, alice.ID, 0)
	assert.Equal(t, service.KindBadRequest, kindOf(err))

	_, err = env.relations.Follow(ctx, alice.ID, 999, 0)
	assert.Equal(t, service.KindNotFound, kindOf(err))

	sub, err := env.relations.Follow(ctx, alice.ID, bob.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Three", sub.Recipes[0].Name)

	_, err = env.relations.Follow(ctx, alice.ID, bob.ID, 0)
	assert.Equal(t, service.KindConflict, kindOf(err))

	subs, err := env.relations.Subscriptions(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 3)

	view, err := env.users.GetUser(ctx, bob.ID, &alice.ID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	view, err = env.users.GetUser(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)

	require.NoError(t, env.relations.Unfollow(ctx, alice.ID, bob.ID))
	assert.Equal(t, service.KindNotFound, kindOf(env.relations.Unfollow(ctx, alice.ID, bob.ID)))
	assert.Equal(t, service.KindBadRequest, kindOf(env.relations.Unfollow(ctx, alice.ID, alice.ID)))

	subs, err = env.relations.Subscriptions(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestFollowRaceReportsConflict(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepository)
	follows := new(mocks.MockFollowRepository)

	users.On("GetByID", ctx, uint(2)).Return(&models.User{ID: 2}, nil)
	follows.On("Exists", ctx, uint(1), uint(2)).Return(false, nil)
	follows.On("Add", ctx, uint(1), uint(2)).Return(repository.ErrDuplicate)

	svc := service.NewRelationService(nil, users, nil, nil, follows, nil)
	_, err := svc.Follow(ctx, 1, 2, 0)
	assert.Equal(t, service.KindConflict, kindOf(err))
	follows.AssertNotCalled(t, "ListAuthors", mock.Anything, mock.Anything)
}
