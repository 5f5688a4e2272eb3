package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TagStore is the gorm-backed TagRepository.
type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagStore) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *TagStore) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetOrCreate inserts tag unless one with the same slug already exists.
// tag.ID is populated either way.
func (s *TagStore) GetOrCreate(ctx context.Context, tag *models.Tag) (bool, error) {
	result := s.db.WithContext(ctx).
		Where(models.Tag{Slug: tag.Slug}).
		Attrs(models.Tag{Name: tag.Name, Color: tag.Color}).
		FirstOrCreate(tag)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IngredientStore is the gorm-backed IngredientRepository.
type IngredientStore struct {
	db *gorm.DB
}

func NewIngredientStore(db *gorm.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search returns ingredients whose name starts with prefix, ignoring case,
// ordered by name. An empty prefix returns the whole catalogue.
func (s *IngredientStore) Search(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if prefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(prefix)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern)
	}

	var ingredients []models.Ingredient
	if err := query.Order("name").Order("id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientStore) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (s *IngredientStore) FindByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientStore) GetOrCreate(ctx context.Context, name, unit string) (bool, error) {
	ingredient := models.Ingredient{}
	result := s.db.WithContext(ctx).
		Where(models.Ingredient{Name: name, MeasurementUnit: unit}).
		FirstOrCreate(&ingredient)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}
