package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// viewer holds the per-user relation state needed to render recipes and
// users. The zero value renders for an anonymous request.
type viewer struct {
	favorited  map[uint]bool
	inCart     map[uint]bool
	subscribed map[uint]bool
}

// viewerState loads relation state of viewerID for the given recipes and
// authors in three batched queries.
func viewerState(
	ctx context.Context,
	viewerID *uint,
	favorites repository.FavoriteRepository,
	carts repository.ShoppingCartRepository,
	follows repository.FollowRepository,
	recipeIDs, authorIDs []uint,
) (viewer, error) {
	var v viewer
	if viewerID == nil {
		return v, nil
	}

	var err error
	if favorites != nil && len(recipeIDs) > 0 {
		if v.favorited, err = favorites.RecipeIDs(ctx, *viewerID, recipeIDs); err != nil {
			return v, err
		}
	}
	if carts != nil && len(recipeIDs) > 0 {
		if v.inCart, err = carts.RecipeIDs(ctx, *viewerID, recipeIDs); err != nil {
			return v, err
		}
	}
	if follows != nil && len(authorIDs) > 0 {
		if v.subscribed, err = follows.AuthorIDs(ctx, *viewerID, authorIDs); err != nil {
			return v, err
		}
	}
	return v, nil
}

func userView(u *models.User, subscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (v viewer) recipeView(r *models.Recipe, imageURL func(string) string) types.RecipeView {
	view := types.RecipeView{
		ID:               r.ID,
		Tags:             make([]types.TagView, 0, len(r.Tags)),
		Author:           userView(&r.Author, v.subscribed[r.AuthorID]),
		Ingredients:      make([]types.RecipeIngredientView, 0, len(r.Ingredients)),
		IsFavorited:      v.favorited[r.ID],
		IsInShoppingCart: v.inCart[r.ID],
		Name:             r.Name,
		Image:            imageURL(r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for _, rt := range r.Tags {
		view.Tags = append(view.Tags, tagView(&rt.Tag))
	}
	for _, ri := range r.Ingredients {
		view.Ingredients = append(view.Ingredients, types.RecipeIngredientView{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	return view
}

func shortRecipeView(r *models.Recipe, imageURL func(string) string) types.ShortRecipeView {
	return types.ShortRecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func tagView(t *models.Tag) types.TagView {
	return types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientView(i *models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
