package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest represents the request body for a password change
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// RecipeIngredientInput references a catalogue ingredient with an amount.
type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the body of recipe create and update. Field rules are
// enforced by the recipe service so that every violation is reported at
// once; Image is a data URI and may be omitted on update.
type RecipeRequest struct {
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	Image       string                  `json:"image"`
	CookingTime int                     `json:"cooking_time"`
	Tags        []uint                  `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// TagInput is a tag fixture row.
type TagInput struct {
	Name  string `yaml:"name" json:"name" validate:"required,max=200"`
	Color string `yaml:"color" json:"color" validate:"required,hexcolor"`
	Slug  string `yaml:"slug" json:"slug" validate:"required,max=200,slug"`
}
