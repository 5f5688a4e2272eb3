package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the services the HTTP layer is built from.
type Dependencies struct {
	Auth        service.IAuthService
	Users       service.IUserService
	Recipes     service.IRecipeService
	Relations   service.IRelationService
	Shopping    service.IShoppingListService
	Reference   service.IReferenceService
	DBPing      api.Pinger
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
	// MediaDir and MediaURL serve locally stored images when both are set.
	MediaDir string
	MediaURL string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	api.RegisterValidators()

	router := gin.New()
	router.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(deps.CORSOrigins),
	)

	api.NewHealthHandler(deps.DBPing).RegisterRoutes(router)
	if deps.MediaDir != "" && deps.MediaURL != "" {
		router.Static(deps.MediaURL, deps.MediaDir)
	}

	apiGroup := router.Group("/api")
	api.NewAuthHandler(deps.Auth).RegisterRoutes(apiGroup)
	api.NewUserHandler(deps.Auth, deps.Users, deps.Relations).RegisterRoutes(apiGroup)
	api.NewRecipeHandler(deps.Auth, deps.Recipes, deps.Relations, deps.Shopping, deps.RateLimiter).RegisterRoutes(apiGroup)
	api.NewReferenceHandler(deps.Reference).RegisterRoutes(apiGroup)

	return router
}
