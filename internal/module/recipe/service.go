package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/simp-lee/recipebook/internal/cache"
	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/media"
	"github.com/simp-lee/recipebook/internal/pkg"
)

const (
	maxNameLength = 200

	DefaultLatestLimit = 10
	MaxLatestLimit     = 100
)

// recipeService implements domain.RecipeService.
type recipeService struct {
	recipes    domain.RecipeRepository
	categories domain.CategoryRepository
	countries  domain.CountryRepository
	assets     *media.Assets
	cache      cache.Cache
	ttl        time.Duration
}

// NewRecipeService creates a RecipeService. The category and country
// repositories are used to check the references of written recipes.
// Pages are cached in c for ttl; images live in the recipes folder of store.
func NewRecipeService(
	recipes domain.RecipeRepository,
	categories domain.CategoryRepository,
	countries domain.CountryRepository,
	store domain.MediaStore,
	c cache.Cache,
	ttl time.Duration,
) domain.RecipeService {
	return &recipeService{
		recipes:    recipes,
		categories: categories,
		countries:  countries,
		assets:     media.NewAssets(store, media.FolderRecipes),
		cache:      c,
		ttl:        ttl,
	}
}

func (s *recipeService) ListRecipes(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Recipe], error) {
	key := cache.ListKey(cache.KindRecipes, req.Page, req.Limit)
	return pkg.CachedListPage(ctx, s.cache, key, s.ttl, req, s.counter(domain.RecipeFilter{}), s.fetcher(domain.RecipeFilter{}))
}

// LatestRecipes returns the newest recipes. limit defaults to
// DefaultLatestLimit and is capped at MaxLatestLimit.
func (s *recipeService) LatestRecipes(ctx context.Context, limit int) ([]domain.Recipe, error) {
	if limit < 1 {
		limit = DefaultLatestLimit
	}
	return s.recipes.Latest(ctx, min(limit, MaxLatestLimit))
}

// SearchRecipes pages through recipes whose name contains name, ignoring case.
func (s *recipeService) SearchRecipes(ctx context.Context, name string, req domain.PageRequest) (*domain.PageResult[domain.Recipe], error) {
	name, err := pkg.RequiredText("name", name, maxNameLength)
	if err != nil {
		return nil, err
	}
	filter := domain.RecipeFilter{Name: name}
	return pkg.ListPage(ctx, req, s.counter(filter), s.fetcher(filter))
}

func (s *recipeService) RecipesByCategory(ctx context.Context, categoryID uint, req domain.PageRequest) (*domain.PageResult[domain.Recipe], error) {
	filter := domain.RecipeFilter{CategoryID: &categoryID}
	return pkg.ListPage(ctx, req, s.counter(filter), s.fetcher(filter))
}

// RecipesByCountry returns every recipe of the country. Unlike the category
// filter it is not paginated.
func (s *recipeService) RecipesByCountry(ctx context.Context, countryID uint) ([]domain.Recipe, error) {
	return s.recipes.All(ctx, domain.RecipeFilter{CountryID: &countryID})
}

func (s *recipeService) GetRecipe(ctx context.Context, id uint) (*domain.Recipe, error) {
	return found(s.recipes.GetByID(ctx, id))
}

func (s *recipeService) GetRecipeBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	return found(s.recipes.GetBySlug(ctx, slug))
}

// CreateRecipe validates in, uploads the image and stores the recipe. When
// the row cannot be stored the fresh asset is discarded again.
func (s *recipeService) CreateRecipe(ctx context.Context, in domain.RecipeInput, image *domain.ImageFile) (*domain.Recipe, error) {
	defer s.assets.Release(ctx, image)

	recipe, err := s.newRecipe(ctx, in)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.Validation("image is required")
	}
	if recipe.Slug, err = s.freeSlug(ctx, recipe.Name, 0); err != nil {
		return nil, err
	}

	ref, err := s.assets.Upload(ctx, image)
	if err != nil {
		return nil, err
	}
	recipe.Image, recipe.MediaHandle = ref.URL, ref.Handle

	if err := s.recipes.Create(ctx, recipe); err != nil {
		s.assets.Discard(ctx, ref.Handle)
		return nil, err
	}

	s.invalidate(ctx)
	return recipe, nil
}

// UpdateRecipe applies the fields set in patch and, when image is given,
// swaps the stored asset. The old asset is dropped only once the recipe
// points at the new one.
func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, patch domain.RecipePatch, image *domain.ImageFile) (*domain.Recipe, error) {
	defer s.assets.Release(ctx, image)

	recipe, err := found(s.recipes.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, recipe, patch); err != nil {
		return nil, err
	}

	var oldHandle, newHandle string
	if image != nil {
		ref, err := s.assets.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		oldHandle, newHandle = recipe.MediaHandle, ref.Handle
		recipe.Image, recipe.MediaHandle = ref.URL, ref.Handle
	}

	if err := s.recipes.Update(ctx, recipe); err != nil {
		if newHandle != "" {
			s.assets.Discard(ctx, newHandle)
		}
		return nil, err
	}
	if oldHandle != "" && oldHandle != newHandle {
		s.assets.Discard(ctx, oldHandle)
	}

	s.invalidate(ctx)
	return recipe, nil
}

// DeleteRecipe removes the image first so a media failure leaves the recipe
// in place for a retry.
func (s *recipeService) DeleteRecipe(ctx context.Context, id uint) (*domain.Recipe, error) {
	recipe, err := found(s.recipes.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if err := s.assets.Delete(ctx, recipe.MediaHandle); err != nil {
		return nil, err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return recipe, nil
}

func (s *recipeService) counter(filter domain.RecipeFilter) pkg.CountFunc {
	return func(ctx context.Context) (int64, error) {
		return s.recipes.Count(ctx, filter)
	}
}

func (s *recipeService) fetcher(filter domain.RecipeFilter) pkg.FetchFunc[domain.Recipe] {
	return func(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
		return s.recipes.List(ctx, filter, skip, limit)
	}
}

// newRecipe validates in and builds the unsaved recipe without slug or image.
func (s *recipeService) newRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	patch := domain.RecipePatch{
		Name:        domain.Some(in.Name),
		Description: domain.Some(in.Description),
		Ingredients: domain.Some(in.Ingredients),
		Steps:       domain.Some(in.Steps),
		CategoryID:  domain.Some(in.CategoryID),
		CountryID:   domain.Some(in.CountryID),
		Duration:    domain.Some(in.Duration),
		Portions:    domain.Some(in.Portions),
	}
	if err := s.apply(ctx, recipe, patch); err != nil {
		return nil, err
	}
	return recipe, nil
}

// apply validates the set fields of patch and copies them onto recipe. A name
// change on a stored recipe also moves its slug.
func (s *recipeService) apply(ctx context.Context, recipe *domain.Recipe, patch domain.RecipePatch) error {
	if patch.Name.Set {
		name, err := pkg.RequiredText("name", patch.Name.Value, maxNameLength)
		if err != nil {
			return err
		}
		if recipe.ID != 0 && name != recipe.Name {
			if recipe.Slug, err = s.freeSlug(ctx, name, recipe.ID); err != nil {
				return err
			}
		}
		recipe.Name = name
	}
	if patch.Description.Set {
		description, err := pkg.RequiredText("description", patch.Description.Value, 0)
		if err != nil {
			return err
		}
		recipe.Description = description
	}
	if patch.Ingredients.Set {
		ingredients, err := nonEmpty("ingredients", patch.Ingredients.Value)
		if err != nil {
			return err
		}
		recipe.Ingredients = ingredients
	}
	if patch.Steps.Set {
		steps, err := nonEmpty("steps", patch.Steps.Value)
		if err != nil {
			return err
		}
		recipe.Steps = steps
	}
	if patch.Duration.Set {
		if patch.Duration.Value < 1 {
			return domain.Validation("duration must be at least 1 minute")
		}
		recipe.Duration = patch.Duration.Value
	}
	if patch.Portions.Set {
		if patch.Portions.Value < 1 {
			return domain.Validation("portions must be at least 1")
		}
		recipe.Portions = patch.Portions.Value
	}
	if patch.CategoryID.Set && (recipe.ID == 0 || patch.CategoryID.Value != recipe.CategoryID) {
		if err := s.checkCategory(ctx, patch.CategoryID.Value); err != nil {
			return err
		}
		recipe.CategoryID = patch.CategoryID.Value
		recipe.Category = nil
	}
	if patch.CountryID.Set {
		countryID := patch.CountryID.Value
		if countryID != nil {
			if err := s.checkCountry(ctx, *countryID); err != nil {
				return err
			}
		}
		recipe.CountryID = countryID
		recipe.Country = nil
	}
	return nil
}

func (s *recipeService) checkCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validation("category is required")
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return domain.Validation(fmt.Sprintf("category %d does not exist", id))
		}
		return err
	}
	return nil
}

func (s *recipeService) checkCountry(ctx context.Context, id uint) error {
	if _, err := s.countries.GetByID(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return domain.Validation(fmt.Sprintf("country %d does not exist", id))
		}
		return err
	}
	return nil
}

// freeSlug derives the slug of name and checks no other recipe holds it.
func (s *recipeService) freeSlug(ctx context.Context, name string, self uint) (string, error) {
	slug, err := pkg.Slugify(name)
	if err != nil {
		return "", err
	}
	existing, err := s.recipes.GetBySlug(ctx, slug)
	switch {
	case domain.IsNotFound(err):
		return slug, nil
	case err != nil:
		return "", err
	case existing.ID != self:
		return "", domain.AlreadyExists(fmt.Sprintf("recipe %s already exists", slug))
	}
	return slug, nil
}

func (s *recipeService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, cache.KindRecipes)
}

func nonEmpty(field string, values []string) ([]string, error) {
	values = pkg.CleanStrings(values)
	if len(values) == 0 {
		return nil, domain.Validation(field + " must not be empty")
	}
	return values, nil
}

func found(recipe *domain.Recipe, err error) (*domain.Recipe, error) {
	if domain.IsNotFound(err) {
		return nil, domain.NotFound("recipe not found")
	}
	return recipe, err
}
