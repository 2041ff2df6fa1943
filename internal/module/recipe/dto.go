package recipe

import "github.com/simp-lee/recipebook/internal/domain"

// CreateRecipeRequest is the multipart form of a new recipe. Ingredients and
// steps are repeated fields; the image travels in the "image" file field.
type CreateRecipeRequest struct {
	Name        string   `json:"name" form:"name" binding:"required,max=200"`
	Description string   `json:"description" form:"description" binding:"required"`
	Ingredients []string `json:"ingredients" form:"ingredients" binding:"required,min=1"`
	Steps       []string `json:"steps" form:"steps" binding:"required,min=1"`
	Category    uint     `json:"category" form:"category" binding:"required"`
	Country     *uint    `json:"country" form:"country"`
	Duration    int      `json:"duration" form:"duration" binding:"required,min=1"`
	Portions    int      `json:"portions" form:"portions" binding:"required,min=1"`
}

// input converts the request to the service input. A zero country means none.
func (r CreateRecipeRequest) input() domain.RecipeInput {
	in := domain.RecipeInput{
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		CategoryID:  r.Category,
		Duration:    r.Duration,
		Portions:    r.Portions,
	}
	if r.Country != nil && *r.Country != 0 {
		in.CountryID = r.Country
	}
	return in
}
