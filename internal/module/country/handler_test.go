package country

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// mockService records the arguments it is called with.
type mockService struct {
	countries map[uint]*domain.Country
	err       error

	gotReq   domain.PageRequest
	gotSlug  string
	gotInput domain.CountryInput
	gotPatch domain.CountryPatch
	gotImage *domain.ImageFile
}

func newMockService() *mockService {
	return &mockService{countries: map[uint]*domain.Country{
		1: {BaseModel: domain.BaseModel{ID: 1}, Name: "Peru", Slug: "peru", Image: "https://img.test/peru", MediaHandle: "countries/peru"},
	}}
}

func (m *mockService) ListCountries(_ context.Context, req domain.PageRequest) (*domain.PageResult[domain.Country], error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.PageResult[domain.Country]{CurrentPage: req.Page, TotalPages: 1, TotalItems: 1, ItemsPerPage: 1, Data: []domain.Country{*m.countries[1]}}, nil
}

func (m *mockService) GetCountry(_ context.Context, id uint) (*domain.Country, error) {
	if c, ok := m.countries[id]; ok {
		return c, nil
	}
	return nil, domain.NotFound("country not found")
}

func (m *mockService) GetCountryBySlug(_ context.Context, slug string) (*domain.Country, error) {
	m.gotSlug = slug
	for _, c := range m.countries {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, domain.NotFound("country not found")
}

func (m *mockService) CreateCountry(_ context.Context, in domain.CountryInput, image *domain.ImageFile) (*domain.Country, error) {
	m.gotInput, m.gotImage = in, image
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Country{BaseModel: domain.BaseModel{ID: 2}, Name: in.Name, Slug: "new", MediaHandle: "countries/new"}, nil
}

func (m *mockService) UpdateCountry(_ context.Context, id uint, patch domain.CountryPatch, image *domain.ImageFile) (*domain.Country, error) {
	m.gotPatch, m.gotImage = patch, image
	if m.err != nil {
		return nil, m.err
	}
	c := *m.countries[id]
	if patch.Name.Set {
		c.Name = patch.Name.Value
	}
	return &c, nil
}

func (m *mockService) DeleteCountry(_ context.Context, id uint) (*domain.Country, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.countries[id]
	if !ok {
		return nil, domain.NotFound("country not found")
	}
	return c, nil
}

// setupAPIRouter creates a gin engine with the country routes for handler testing.
func setupAPIRouter(t *testing.T, svc domain.CountryService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(NewCountryHandler(svc, t.TempDir()), nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

// multipartRequest builds a multipart request; a non-empty image adds the file field.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "flag.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(image)
	}
	w.Close()
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) pkg.Response {
	t.Helper()
	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return resp
}

func TestCountryHandler_List(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/countries?page=1&limit=500", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.gotReq != (domain.PageRequest{Page: 1, Limit: pkg.MaxLimit}) {
		t.Errorf("page request = %+v, want limit capped", svc.gotReq)
	}
	data := decode(t, w).Data.(map[string]any)
	if data["totalItems"] != float64(1) || len(data["data"].([]any)) != 1 {
		t.Errorf("data = %v", data)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("countries/peru")) {
		t.Error("media handle leaked into the response")
	}
}

func TestCountryHandler_List_PageNotFound(t *testing.T) {
	svc := newMockService()
	svc.err = domain.ErrPageNotFound
	r := setupAPIRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/countries?page=9", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCountryHandler_GetByIDOrSlug(t *testing.T) {
	svc := newMockService()
	svc.countries[2] = &domain.Country{BaseModel: domain.BaseModel{ID: 2}, Name: "101", Slug: "101"}
	r := setupAPIRouter(t, svc)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/countries/1", http.StatusOK},
		{"/api/v1/countrys/1", http.StatusOK},
		{"/api/v1/countries/Peru", http.StatusOK},
		{"/api/v1/countries/101", http.StatusOK},
		{"/api/v1/countries/7", http.StatusNotFound},
		{"/api/v1/countries/mexico", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.status)
		}
	}
	if svc.gotSlug != "mexico" {
		t.Errorf("last slug lookup = %q", svc.gotSlug)
	}
}

func TestCountryHandler_Create(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/api/v1/countries", map[string]string{"name": "Mexico"}, []byte("png")))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if msg := decode(t, w).Message; msg != "country Mexico created successfully" {
		t.Errorf("message = %q", msg)
	}
	if svc.gotInput.Name != "Mexico" || svc.gotImage == nil {
		t.Fatalf("service got %+v, image %v", svc.gotInput, svc.gotImage)
	}
	if _, err := os.Stat(svc.gotImage.Path); err != nil {
		t.Errorf("staged upload missing: %v", err)
	}
}

func TestCountryHandler_Create_ValidationError(t *testing.T) {
	r := setupAPIRouter(t, newMockService())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/api/v1/countries", nil, []byte("png")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Errors["name"] != "required" {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestCountryHandler_Update(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPut, "/api/v1/countries/1", map[string]string{"name": "Japan"}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if msg := decode(t, w).Message; msg != "country Japan updated successfully" {
		t.Errorf("message = %q", msg)
	}
	if !svc.gotPatch.Name.Set || svc.gotImage != nil {
		t.Errorf("patch = %+v, image = %v", svc.gotPatch, svc.gotImage)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, http.MethodPut, "/api/v1/countries/1", nil, []byte("png")))
	if svc.gotPatch.Name.Set || svc.gotImage == nil {
		t.Errorf("image-only update: patch = %+v, image = %v", svc.gotPatch, svc.gotImage)
	}
}

func TestCountryHandler_Delete(t *testing.T) {
	svc := newMockService()
	r := setupAPIRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/countries/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := decode(t, w).Message; msg != "country Peru deleted successfully" {
		t.Errorf("message = %q", msg)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/countries/peru", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", w.Code)
	}
}

func TestCountryHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"upstream", domain.Upstream("image delete failed", os.ErrDeadlineExceeded), http.StatusBadGateway},
		{"not found", domain.NotFound("country not found"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockService()
			svc.err = tt.err
			r := setupAPIRouter(t, svc)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/countries/1", nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if bytes.Contains(w.Body.Bytes(), []byte("deadline")) {
				t.Error("upstream cause leaked into the response")
			}
		})
	}
}
