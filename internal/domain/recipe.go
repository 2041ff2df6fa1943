package domain

import (
	"context"

	"gorm.io/datatypes"
)

// Recipe is a dish with its ingredients, preparation steps and image.
type Recipe struct {
	BaseModel
	Name        string                      `gorm:"size:200;not null" json:"name"`
	SearchName  string                      `gorm:"size:200;not null;default:''" json:"-"`
	Slug        string                      `gorm:"size:220;not null;uniqueIndex" json:"slug"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Ingredients datatypes.JSONSlice[string] `gorm:"not null" json:"ingredients"`
	Steps       datatypes.JSONSlice[string] `gorm:"not null" json:"steps"`
	CategoryID  uint                        `gorm:"not null;index" json:"category_id"`
	Category    *Category                   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	CountryID   *uint                       `gorm:"index" json:"country_id"`
	Country     *Country                    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"country,omitempty"`
	Duration    int                         `gorm:"not null" json:"duration"`
	Portions    int                         `gorm:"not null" json:"portions"`
	Image       string                      `gorm:"size:512;not null" json:"image"`
	MediaHandle string                      `gorm:"size:255" json:"-"`
}

// RecipeFilter narrows recipe queries. Zero values do not filter.
type RecipeFilter struct {
	// Name matches case-insensitively anywhere in the recipe name.
	Name       string
	CategoryID *uint
	CountryID  *uint
}

// RecipeInput carries the fields required to create a recipe.
type RecipeInput struct {
	Name        string
	Description string
	Ingredients []string
	Steps       []string
	CategoryID  uint
	CountryID   *uint
	Duration    int
	Portions    int
}

// RecipePatch carries a partial recipe update. An explicitly empty CountryID
// clears the country relation.
type RecipePatch struct {
	Name        Field[string]
	Description Field[string]
	Ingredients Field[[]string]
	Steps       Field[[]string]
	CategoryID  Field[uint]
	CountryID   Field[*uint]
	Duration    Field[int]
	Portions    Field[int]
}

// RecipeRepository defines the data access interface for recipes.
// Every read expands Category and Country.
type RecipeRepository interface {
	Count(ctx context.Context, filter RecipeFilter) (int64, error)
	List(ctx context.Context, filter RecipeFilter, skip, limit int) ([]Recipe, error)
	All(ctx context.Context, filter RecipeFilter) ([]Recipe, error)
	Latest(ctx context.Context, limit int) ([]Recipe, error)
	GetByID(ctx context.Context, id uint) (*Recipe, error)
	GetBySlug(ctx context.Context, slug string) (*Recipe, error)
	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id uint) error
}

// RecipeService defines the business logic interface for recipes.
type RecipeService interface {
	ListRecipes(ctx context.Context, req PageRequest) (*PageResult[Recipe], error)
	LatestRecipes(ctx context.Context, limit int) ([]Recipe, error)
	SearchRecipes(ctx context.Context, name string, req PageRequest) (*PageResult[Recipe], error)
	RecipesByCategory(ctx context.Context, categoryID uint, req PageRequest) (*PageResult[Recipe], error)
	RecipesByCountry(ctx context.Context, countryID uint) ([]Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*Recipe, error)
	GetRecipeBySlug(ctx context.Context, slug string) (*Recipe, error)
	CreateRecipe(ctx context.Context, in RecipeInput, image *ImageFile) (*Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, patch RecipePatch, image *ImageFile) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id uint) (*Recipe, error)
}
