package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserService renders users for the acting user.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository) *UserService {
	return &UserService{users: users, follows: follows}
}

func (s *UserService) ListUsers(ctx context.Context, viewerID *uint) ([]types.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list users", err)
	}
	return s.render(ctx, users, viewerID)
}

func (s *UserService) GetUser(ctx context.Context, id uint, viewerID *uint) (*types.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to load user", err)
	}
	views, err := s.render(ctx, []models.User{*user}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Me returns the acting user. A token for a deleted account is treated as
// unauthenticated.
func (s *UserService) Me(ctx context.Context, userID uint) (*types.UserView, error) {
	view, err := s.GetUser(ctx, userID, &userID)
	if KindOf(err) == KindNotFound {
		return nil, NewUnauthenticatedError("user no longer exists")
	}
	return view, err
}

func (s *UserService) render(ctx context.Context, users []models.User, viewerID *uint) ([]types.UserView, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	v, err := viewerState(ctx, viewerID, nil, nil, s.follows, nil, ids)
	if err != nil {
		return nil, NewInternalError("failed to load subscriptions", err)
	}

	views := make([]types.UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i], v.subscribed[users[i].ID]))
	}
	return views, nil
}

// UserView renders a freshly created user for its owner.
func UserView(u *models.User) types.UserView {
	return userView(u, false)
}
