package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CreateUser inserts a user whose email and username derive from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        name + "@example.com",
		Username:     name,
		FirstName:    name,
		LastName:     "Tester",
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

// Line is an (ingredient, amount) pair for CreateRecipe.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe by author with the given lines and tags.
// Successive calls get strictly increasing creation times.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines []Line, tags ...*models.Tag) *models.Recipe {
	t.Helper()

	var latest models.Recipe
	created := time.Now().UTC()
	if err := db.Order("created_at DESC").Limit(1).Find(&latest).Error; err == nil && latest.ID != 0 && !created.After(latest.CreatedAt) {
		created = latest.CreatedAt.Add(time.Second)
	}

	recipe := &models.Recipe{
		CreatedAt:   created,
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "recipes/images/" + name + ".png",
		CookingTime: 10,
	}
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for _, line := range lines {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: line.Ingredient.ID, Amount: line.Amount}
		if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
			t.Fatalf("failed to add ingredient to %s: %v", name, err)
		}
	}
	for _, tag := range tags {
		row := models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}
		if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
			t.Fatalf("failed to tag %s: %v", name, err)
		}
	}
	recipe.Author = *author
	return recipe
}
