package country

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// CountryHandler handles REST API requests for the country resource.
type CountryHandler struct {
	svc       domain.CountryService
	uploadDir string
}

// NewCountryHandler creates a CountryHandler. Uploaded images are staged in
// uploadDir until the service hands them to the media store.
func NewCountryHandler(svc domain.CountryService, uploadDir string) *CountryHandler {
	return &CountryHandler{svc: svc, uploadDir: uploadDir}
}

// List handles GET /api/v1/countries.
func (h *CountryHandler) List(c *gin.Context) {
	result, err := h.svc.ListCountries(c.Request.Context(), pkg.ParsePageRequest(c, pkg.DefaultLimit))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /api/v1/countries/:ref, where ref is an id or a slug.
func (h *CountryHandler) Get(c *gin.Context) {
	var (
		country *domain.Country
		err     error
	)
	ctx := c.Request.Context()
	id, slug := pkg.PathRef(c, "ref")
	if id != 0 {
		country, err = h.svc.GetCountry(ctx, id)
	}
	if id == 0 || domain.IsNotFound(err) {
		country, err = h.svc.GetCountryBySlug(ctx, slug)
	}
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, country)
}

// Create handles POST /api/v1/countries (multipart).
func (h *CountryHandler) Create(c *gin.Context) {
	var req CreateCountryRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	image, err := pkg.SaveUpload(c, pkg.ImageField, h.uploadDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	country, err := h.svc.CreateCountry(c.Request.Context(), domain.CountryInput{Name: req.Name}, image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "country "+country.Name+" created successfully", country)
}

// Update handles PUT /api/v1/countries/:id (multipart). Omitted fields keep
// their stored value.
func (h *CountryHandler) Update(c *gin.Context) {
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

	patch := domain.CountryPatch{Name: pkg.FormString(c, "name")}
	country, err := h.svc.UpdateCountry(c.Request.Context(), id, patch, image)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "country "+country.Name+" updated successfully", country)
}

// Delete handles DELETE /api/v1/countries/:id.
func (h *CountryHandler) Delete(c *gin.Context) {
	id, err := pkg.PathID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	country, err := h.svc.DeleteCountry(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Respond(c, http.StatusOK, "country "+country.Name+" deleted successfully", country)
}
