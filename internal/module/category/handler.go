package category

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// CategoryHandler handles REST API requests for the category resource.
type CategoryHandler struct {
	svc       domain.CategoryService
	uploadDir string
}

// NewCategoryHandler creates a CategoryHandler. Uploaded images are staged in
// uploadDir until the service hands them to the media store.
func NewCategoryHandler(svc domain.CategoryService, uploadDir string) *CategoryHandler {
	return &CategoryHandler{svc: svc, uploadDir: uploadDir}
}

// List handles GET /api/v1/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.svc.ListCategories(c.Request.Context(), pkg.ParsePageRequest(c, pkg.DefaultLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /api/v1/categories/:ref, where ref is an id or a slug.
func (h *CategoryHandler) Get(c *gin.Context) {
	var (
		category *domain.Category
		err      error
	)
	ctx := c.Request.Context()
	id, slug := pkg.PathRef(c, "ref")
	if id != 0 {
		category, err = h.svc.GetCategory(ctx, id)
	}
	if id == 0 || domain.IsNotFound(err) {
		category, err = h.svc.GetCategoryBySlug(ctx, slug)
	}
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, category)
}

// Create handles POST /api/v1/categories (multipart).
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	image, err := pkg.SaveUpload(c, pkg.ImageField, h.uploadDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), domain.CategoryInput{Name: req.Name}, image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "category "+category.Name+" created successfully", category)
}

// Update handles PUT /api/v1/categories/:id (multipart). Omitted fields keep
// their stored value.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := pkg.PathID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	image, err := pkg.SaveUpload(c, pkg.ImageField, h.uploadDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	patch := domain.CategoryPatch{Name: pkg.FormString(c, "name")}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, patch, image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "category "+category.Name+" updated successfully", category)
}

// Delete handles DELETE /api/v1/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := pkg.PathID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	category, err := h.svc.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "category "+category.Name+" deleted successfully", category)
}
