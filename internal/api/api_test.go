package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryDenylist is an in-process token denylist.
type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (d *memoryDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = true
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[jti], nil
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)

	userRepo := repository.NewUserStore(db)
	recipeRepo := repository.NewRecipeStore(db)
	tagRepo := repository.NewTagStore(db)
	ingredientRepo := repository.NewIngredientStore(db)
	favorites := repository.NewFavoriteStore(db)
	carts := repository.NewShoppingCartStore(db)
	follows := repository.NewFollowStore(db)
	images := service.NewImageService(storage.NewLocalStore(t.TempDir(), "/media"))

	auth := service.NewAuthService(userRepo, "test-secret", time.Hour, &memoryDenylist{revoked: map[string]bool{}})
	r := router.SetupRouter(router.Dependencies{
		Auth:      auth,
		Users:     service.NewUserService(userRepo, follows),
		Recipes:   service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favorites, carts, follows, images),
		Relations: service.NewRelationService(recipeRepo, userRepo, favorites, carts, follows, images),
		Shopping:  service.NewShoppingListService(carts),
		Reference: service.NewReferenceService(tagRepo, ingredientRepo),
		DBPing: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
		CORSOrigins: []string{"*"},
	})

	return &testAPI{t: t, db: db, auth: auth, router: r}
}

// token issues a token for user.
func (a *testAPI) token(user *models.User) string {
	a.t.Helper()
	token, err := a.auth.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

// do sends body as JSON; token may be empty for anonymous requests.
func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
