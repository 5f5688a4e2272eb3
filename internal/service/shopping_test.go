package service_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestAggregateMergesByNameAndUnit(t *testing.T) {
	rows := []repository.CartRow{
		{Name: "Salt", MeasurementUnit: "g", Amount: 10},
		{Name: "Salt", MeasurementUnit: "g", Amount: 5},
	}
	items := service.Aggregate(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "Salt (g) — 15\n", service.Render(items))
}

func TestAggregateKeepsUnitsApart(t *testing.T) {
	rows := []repository.CartRow{
		{Name: "Sugar", MeasurementUnit: "g", Amount: 100},
		{Name: "Sugar", MeasurementUnit: "tbsp", Amount: 2},
		{Name: "Sugar", MeasurementUnit: "g", Amount: 50},
	}
	assert.Equal(t, []service.ShoppingItem{
		{Name: "Sugar", MeasurementUnit: "g", Amount: 150},
		{Name: "Sugar", MeasurementUnit: "tbsp", Amount: 2},
	}, service.Aggregate(rows))
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, service.Aggregate(nil))
	assert.Equal(t, "", service.Render(service.Aggregate(nil)))
}

func TestAggregateSumIsOrderIndependent(t *testing.T) {
	rows := []repository.CartRow{
		{Name: "Milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "Salt", MeasurementUnit: "g", Amount: 10},
		{Name: "Eggs", MeasurementUnit: "pcs", Amount: 3},
		{Name: "Salt", MeasurementUnit: "g", Amount: 5},
		{Name: "Milk", MeasurementUnit: "ml", Amount: 50},
		{Name: "Salt", MeasurementUnit: "kg", Amount: 1},
	}
	want := map[string]int{}
	for _, item := range service.Aggregate(rows) {
		want[item.Name+"|"+item.MeasurementUnit] = item.Amount
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]repository.CartRow(nil), rows...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := map[string]int{}
		for _, item := range service.Aggregate(shuffled) {
			got[item.Name+"|"+item.MeasurementUnit] = item.Amount
		}
		assert.Equal(t, want, got)
	}
}

func TestRenderGolden(t *testing.T) {
	rows := []repository.CartRow{
		{Name: "Milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "Salt", MeasurementUnit: "g", Amount: 10},
		{Name: "Eggs", MeasurementUnit: "pcs", Amount: 3},
		{Name: "Salt", MeasurementUnit: "g", Amount: 5},
		{Name: "Salt", MeasurementUnit: "kg", Amount: 1},
	}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "shopping_list", []byte(service.Render(service.Aggregate(rows))))
}

func TestBuildWithMockCart(t *testing.T) {
	carts := new(mocks.MockRecipeRelationRepository)
	ctx := context.Background()
	carts.On("IngredientRows", ctx, uint(7)).Return([]repository.CartRow{
		{Name: "Salt", MeasurementUnit: "g", Amount: 10},
		{Name: "Salt", MeasurementUnit: "g", Amount: 5},
	}, nil).Once()
	carts.On("IngredientRows", ctx, uint(8)).Return(nil, assert.AnError).Once()

	svc := service.NewShoppingListService(carts)

	items, err := svc.Build(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []service.ShoppingItem{{Name: "Salt", MeasurementUnit: "g", Amount: 15}}, items)

	_, err = svc.Build(ctx, 8)
	assert.Equal(t, service.KindInternal, service.KindOf(err))
	assert.ErrorIs(t, err, assert.AnError)

	carts.AssertExpectations(t)
}

func TestBuildFromDatabase(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, env.db, "alice")
	buyer := testhelpers.CreateUser(t, env.db, "bob")
	salt := testhelpers.CreateIngredient(t, env.db, "Salt", "g")
	soup := testhelpers.CreateRecipe(t, env.db, author, "Soup", []testhelpers.Line{{Ingredient: salt, Amount: 10}})
	stew := testhelpers.CreateRecipe(t, env.db, author, "Stew", []testhelpers.Line{{Ingredient: salt, Amount: 5}})

	items, err := env.shopping.Build(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "", service.Render(items))

	_, err = env.relations.AddToCart(ctx, buyer.ID, soup.ID)
	require.NoError(t, err)
	_, err = env.relations.AddToCart(ctx, buyer.ID, stew.ID)
	require.NoError(t, err)

	items, err = env.shopping.Build(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salt (g) — 15\n", service.Render(items))
}
