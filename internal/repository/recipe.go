package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RecipeStore is the gorm-backed RecipeRepository.
type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Create inserts the recipe and its ingredient and tag rows in one
// transaction. The referenced Ingredient and Tag rows must already exist.
func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return createLines(tx, recipe)
	})
	return translate(err)
}

// Update rewrites the recipe fields and replaces its ingredient and tag
// rows wholesale.
func (s *RecipeStore) Update(ctx context.Context, recipe *models.Recipe) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{ID: recipe.ID}).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return createLines(tx, recipe)
	})
	return translate(err)
}

func createLines(tx *gorm.DB, recipe *models.Recipe) error {
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].ID = 0
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	for i := range recipe.Tags {
		recipe.Tags[i].ID = 0
		recipe.Tags[i].RecipeID = recipe.ID
	}
	if len(recipe.Ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
	}
	if len(recipe.Tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe with every row that references it.
func (s *RecipeStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *RecipeStore) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (s *RecipeStore) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByAuthorAndName reports whether authorID already owns a recipe
// called name, other than excludeID.
func (s *RecipeStore) ExistsByAuthorAndName(ctx context.Context, authorID uint, name string, excludeID uint) (bool, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ? AND name = ?", authorID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns recipes matching filter, newest first.
func (s *RecipeStore) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx)
	query := withDetails(db.Model(&models.Recipe{}))

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.ViewerID != nil {
		if filter.IsFavorited != nil {
			favorited := db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.ViewerID)
			query = membership(query, *filter.IsFavorited, favorited)
		}
		if filter.InShoppingCart != nil {
			inCart := db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *filter.ViewerID)
			query = membership(query, *filter.InShoppingCart, inCart)
		}
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.created_at DESC").Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func membership(query *gorm.DB, present bool, subquery *gorm.DB) *gorm.DB {
	if present {
		return query.Where("recipes.id IN (?)", subquery)
	}
	return query.Where("recipes.id NOT IN (?)", subquery)
}

// ListByAuthor returns the author's recipes newest first. A non-positive
// limit returns all of them.
func (s *RecipeStore) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns recipe counts keyed by author. Authors without
// recipes are absent from the map.
func (s *RecipeStore) CountByAuthor(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}
