package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

// RecipeHandler serves recipes, the favorite and cart toggles and the
// shopping list download.
type RecipeHandler struct {
	auth          service.IAuthService
	recipes       service.IRecipeService
	relations     service.IRelationService
	shopping      service.IShoppingListService
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	auth service.IAuthService,
	recipes service.IRecipeService,
	relations service.IRelationService,
	shopping service.IShoppingListService,
	createLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		auth:          auth,
		recipes:       recipes,
		relations:     relations,
		shopping:      shopping,
		createLimiter: createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.auth)
	create := []gin.HandlerFunc{requireAuth}
	if h.createLimiter != nil {
		create = append(create, h.createLimiter.Middleware())
	}

	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuth(h.auth))
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/", append(create, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart/", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/shopping_cart/download", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.PATCH("/:id/", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id/", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite/", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", requireAuth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := service.ParseRecipeFilter(c.Request.URL.Query(), middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addRelationFunc func(c *gin.Context, userID, recipeID uint) (*types.ShortRecipeView, error)

type removeRelationFunc func(c *gin.Context, userID, recipeID uint) error

func (h *RecipeHandler) addRelation(c *gin.Context, add addRelationFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove removeRelationFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := remove(c, userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, func(c *gin.Context, userID, recipeID uint) (*types.ShortRecipeView, error) {
		return h.relations.AddFavorite(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, func(c *gin.Context, userID, recipeID uint) error {
		return h.relations.RemoveFavorite(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, func(c *gin.Context, userID, recipeID uint) (*types.ShortRecipeView, error) {
		return h.relations.AddToCart(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, func(c *gin.Context, userID, recipeID uint) error {
		return h.relations.RemoveFromCart(c.Request.Context(), userID, recipeID)
	})
}

// DownloadShoppingCart returns the aggregated ingredient list of every
// recipe in the user's cart as a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.shopping.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}
