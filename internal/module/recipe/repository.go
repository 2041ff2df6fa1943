package recipe

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// recipeRepository implements domain.RecipeRepository using GORM. Every read
// preloads the category and country of the recipe.
type recipeRepository struct {
	store *pkg.Store[domain.Recipe]
}

// NewRecipeRepository creates a new RecipeRepository backed by the given GORM database.
func NewRecipeRepository(db *gorm.DB) domain.RecipeRepository {
	return &recipeRepository{store: pkg.NewStore[domain.Recipe](db, "id desc", "Category", "Country")}
}

func (r *recipeRepository) Count(ctx context.Context, filter domain.RecipeFilter) (int64, error) {
	return r.store.Count(ctx, matching(filter))
}

func (r *recipeRepository) List(ctx context.Context, filter domain.RecipeFilter, skip, limit int) ([]domain.Recipe, error) {
	return r.store.Find(ctx, skip, limit, matching(filter))
}

// All returns every recipe matching filter, newest first.
func (r *recipeRepository) All(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	return r.store.Find(ctx, 0, 0, matching(filter))
}

// Latest returns the limit most recently created recipes.
func (r *recipeRepository) Latest(ctx context.Context, limit int) ([]domain.Recipe, error) {
	return r.store.Find(ctx, 0, limit)
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	return r.store.FindByID(ctx, id)
}

func (r *recipeRepository) GetBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	return r.store.FindBy(ctx, "slug", slug)
}

func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	recipe.SearchName = searchKey(recipe.Name)
	return r.store.Insert(ctx, recipe)
}

func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	recipe.SearchName = searchKey(recipe.Name)
	return r.store.Update(ctx, recipe)
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.store.Delete(ctx, id)
}

// matching turns filter into a query scope.
func matching(filter domain.RecipeFilter) pkg.Scope {
	return func(db *gorm.DB) *gorm.DB {
		if name := strings.TrimSpace(filter.Name); name != "" {
			db = db.Where(`search_name LIKE ? ESCAPE '\'`, "%"+escapeLike(searchKey(name))+"%")
		}
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.CountryID != nil {
			db = db.Where("country_id = ?", *filter.CountryID)
		}
		return db
	}
}

// searchKey folds s the way search_name is stored. SQLite's LOWER only folds
// ASCII, so the column is filled here rather than in SQL.
func searchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
