package recipe

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// RecipeHandler handles REST API requests for the recipe resource.
type RecipeHandler struct {
	svc       domain.RecipeService
	uploadDir string
}

// NewRecipeHandler creates a RecipeHandler. Uploaded images are staged in
// uploadDir until the service hands them to the media store.
func NewRecipeHandler(svc domain.RecipeService, uploadDir string) *RecipeHandler {
	return &RecipeHandler{svc: svc, uploadDir: uploadDir}
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(c *gin.Context) {
	result, err := h.svc.ListRecipes(c.Request.Context(), pkg.ParsePageRequest(c, pkg.DefaultLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Latest handles GET /api/v1/recipes/latest.
func (h *RecipeHandler) Latest(c *gin.Context) {
	recipes, err := h.svc.LatestRecipes(c.Request.Context(), pkg.QueryInt(c, "limit", DefaultLatestLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, recipes)
}

// Search handles GET /api/v1/recipes/search?name=.
func (h *RecipeHandler) Search(c *gin.Context) {
	name := c.Query("name")
	result, err := h.svc.SearchRecipes(c.Request.Context(), name, pkg.ParsePageRequest(c, pkg.DefaultLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if result.TotalItems == 0 {
		pkg.Respond(c, http.StatusOK, fmt.Sprintf("no recipes match the name %s", name), result)
		return
	}
	pkg.List(c, result)
}

// ByCategory handles GET /api/v1/recipes/filter/categories?CategoryId=.
func (h *RecipeHandler) ByCategory(c *gin.Context) {
	id, err := queryID(c, "CategoryId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	result, err := h.svc.RecipesByCategory(c.Request.Context(), id, pkg.ParsePageRequest(c, pkg.DefaultLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if result.TotalItems == 0 {
		pkg.Respond(c, http.StatusOK, "there are no recipes in this category", result)
		return
	}
	pkg.List(c, result)
}

// ByCountry handles GET /api/v1/recipes/filter/countrys?countryId=. The
// result is the full list, not a page.
func (h *RecipeHandler) ByCountry(c *gin.Context) {
	id, err := queryID(c, "countryId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	recipes, err := h.svc.RecipesByCountry(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if len(recipes) == 0 {
		pkg.Respond(c, http.StatusOK, "there are no recipes from this country", recipes)
		return
	}
	pkg.Success(c, recipes)
}

// Get handles GET /api/v1/recipes/:ref, where ref is an id or a slug.
func (h *RecipeHandler) Get(c *gin.Context) {
	var (
		recipe *domain.Recipe
		err    error
	)
	ctx := c.Request.Context()
	id, slug := pkg.PathRef(c, "ref")
	if id != 0 {
		recipe, err = h.svc.GetRecipe(ctx, id)
	}
	if id == 0 || domain.IsNotFound(err) {
		recipe, err = h.svc.GetRecipeBySlug(ctx, slug)
	}
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, recipe)
}

// Create handles POST /api/v1/recipes (multipart).
func (h *RecipeHandler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	image, err := pkg.SaveUpload(c, pkg.ImageField, h.uploadDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	recipe, err := h.svc.CreateRecipe(c.Request.Context(), req.input(), image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "recipe "+recipe.Name+" created successfully", recipe)
}

// Update handles PUT /api/v1/recipes/:id (multipart). Omitted fields keep
// their stored value; an empty country clears it.
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := pkg.PathID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	patch, err := bindPatch(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	image, err := pkg.SaveUpload(c, pkg.ImageField, h.uploadDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	recipe, err := h.svc.UpdateRecipe(c.Request.Context(), id, patch, image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "recipe "+recipe.Name+" updated successfully", recipe)
}

// Delete handles DELETE /api/v1/recipes/:id.
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := pkg.PathID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	recipe, err := h.svc.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "recipe "+recipe.Name+" deleted successfully", recipe)
}

func bindPatch(c *gin.Context) (domain.RecipePatch, error) {
	patch := domain.RecipePatch{
		Name:        pkg.FormString(c, "name"),
		Description: pkg.FormString(c, "description"),
		Ingredients: pkg.FormStrings(c, "ingredients"),
		Steps:       pkg.FormStrings(c, "steps"),
	}
	var err error
	if patch.CategoryID, err = pkg.FormID(c, "category"); err != nil {
		return patch, err
	}
	if patch.CountryID, err = pkg.FormOptionalID(c, "country"); err != nil {
		return patch, err
	}
	if patch.Duration, err = pkg.FormInt(c, "duration"); err != nil {
		return patch, err
	}
	if patch.Portions, err = pkg.FormInt(c, "portions"); err != nil {
		return patch, err
	}
	return patch, nil
}

func queryID(c *gin.Context, key string) (uint, error) {
	id, err := pkg.ParseID(c.Query(key))
	if err != nil {
		return 0, domain.Validation(key + " must be a positive integer")
	}
	return id, nil
}
