package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

const invalidCredentials = "Unable to log in with provided credentials."

// TokenDenylist remembers logged-out token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService registers users and issues and validates auth tokens.
type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	denylist  TokenDenylist
	now       func() time.Time
}

// NewAuthService creates an AuthService. denylist may be nil, in which case
// logout does not invalidate issued tokens.
func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration, denylist TokenDenylist) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		denylist:  denylist,
		now:       time.Now,
	}
}

// Register creates an account. Taken emails and usernames are validation
// failures on the respective field.
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	fields := FieldErrors{}
	emailTaken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewInternalError("failed to check email", err)
	}
	if emailTaken {
		fields.Add("email", "A user with that email already exists.")
	}
	usernameTaken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewInternalError("failed to check username", err)
	}
	if usernameTaken {
		fields.Add("username", "A user with that username already exists.")
	}
	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewConflictError("a user with that email or username already exists")
		}
		return nil, NewInternalError("failed to create user", err)
	}

	log.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", FieldError("non_field_errors", invalidCredentials)
		}
		return "", NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", FieldError("non_field_errors", invalidCredentials)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// GenerateToken issues a token for user with a fresh token id.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifies the signature and expiry of tokenString and
// rejects tokens revoked by Logout.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail open
			log.Ctx(ctx).Warn().Err(err).Msg("token denylist lookup failed")
		} else if revoked {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}

// Logout revokes the token described by claims for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return NewInternalError("failed to revoke token", err)
	}
	return nil
}

// SetPassword replaces the password of userID after checking the current one.
func (s *AuthService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewUnauthenticatedError("user no longer exists")
		}
		return NewInternalError("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return FieldError("current_password", "Invalid password.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return NewInternalError("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return NewInternalError("failed to update password", err)
	}
	return nil
}
