package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// recipeRelation implements RecipeRelationRepository over any table with
// user_id and recipe_id columns.
type recipeRelation struct {
	db     *gorm.DB
	newRow func(userID, recipeID uint) interface{}
}

func (r *recipeRelation) Add(ctx context.Context, userID, recipeID uint) error {
	return translate(r.db.WithContext(ctx).Create(r.newRow(userID, recipeID)).Error)
}

func (r *recipeRelation) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeRelation) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRelation) RecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return found, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// FavoriteStore is the gorm-backed FavoriteRepository.
type FavoriteStore struct {
	*recipeRelation
}

func NewFavoriteStore(db *gorm.DB) *FavoriteStore {
	return &FavoriteStore{&recipeRelation{
		db: db,
		newRow: func(userID, recipeID uint) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}}
}

// ShoppingCartStore is the gorm-backed ShoppingCartRepository.
type ShoppingCartStore struct {
	*recipeRelation
}

func NewShoppingCartStore(db *gorm.DB) *ShoppingCartStore {
	return &ShoppingCartStore{&recipeRelation{
		db: db,
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}}
}

func (s *ShoppingCartStore) IngredientRows(ctx context.Context, userID uint) ([]CartRow, error) {
	var rows []CartRow
	err := s.db.WithContext(ctx).Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.id").
		Order("recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FollowStore is the gorm-backed FollowRepository.
type FollowStore struct {
	db *gorm.DB
}

func NewFollowStore(db *gorm.DB) *FollowStore {
	return &FollowStore{db: db}
}

func (s *FollowStore) Add(ctx context.Context, userID, authorID uint) error {
	return translate(s.db.WithContext(ctx).Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error)
}

func (s *FollowStore) Remove(ctx context.Context, userID, authorID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *FollowStore) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *FollowStore) AuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return found, nil
	}
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

func (s *FollowStore) ListAuthors(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
