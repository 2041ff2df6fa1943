package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"

	"github.com/simp-lee/recipebook/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newResponseTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == "" {
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		return c, w
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return v
}

func TestEnvelopes(t *testing.T) {
	soups := map[string]any{"name": "Soups"}

	tests := []struct {
		name       string
		send       func(c *gin.Context)
		wantStatus int
		wantMsg    string
		wantData   any
	}{
		{"success", func(c *gin.Context) { Success(c, soups) }, http.StatusOK, "success", soups},
		{"success without data", func(c *gin.Context) { Success(c, nil) }, http.StatusOK, "success", nil},
		{"created", func(c *gin.Context) { Created(c, "category Soups created successfully", soups) },
			http.StatusCreated, "category Soups created successfully", soups},
		{"respond", func(c *gin.Context) { Respond(c, http.StatusOK, "no recipes match the name tofu", []any{}) },
			http.StatusOK, "no recipes match the name tofu", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext("")
			tt.send(c)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			want := Response{Code: tt.wantStatus, Message: tt.wantMsg, Data: tt.wantData}
			if diff := cmp.Diff(want, decodeResponse[Response](t, w)); diff != "" {
				t.Errorf("envelope mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", domain.NotFound("recipe paella not found"), http.StatusNotFound, "recipe paella not found"},
		{"page not found", domain.ErrPageNotFound, http.StatusNotFound, "page not found"},
		{"already exists", domain.NewAppError(domain.CodeAlreadyExists, "category Soups already exists", nil),
			http.StatusConflict, "category Soups already exists"},
		{"conflict", domain.NewAppError(domain.CodeConflict, "category Soups still has recipes", nil),
			http.StatusConflict, "category Soups still has recipes"},
		{"validation", domain.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"upstream hides the cause", domain.Upstream("image upload failed", errors.New("api key rejected")),
			http.StatusBadGateway, "image upload failed"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext("")
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			want := Response{Code: tt.wantStatus, Message: tt.wantMsg}
			if diff := cmp.Diff(want, decodeResponse[Response](t, w)); diff != "" {
				t.Errorf("envelope mismatch (-want +got):\n%s", diff)
			}
			if last := c.Errors.Last(); last == nil || !errors.Is(last.Err, tt.err) {
				t.Errorf("error not attached to the context: %v", c.Errors)
			}
		})
	}
}

func TestList(t *testing.T) {
	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	c, w := newResponseTestContext("")
	List(c, NewPageResult([]item{{1, "Paella"}, {2, "Ramen"}},
		PageInfo{CurrentPage: 1, TotalPages: 1, TotalItems: 2, Limit: 20}))

	got := decodeResponse[struct {
		Code int                     `json:"code"`
		Data domain.PageResult[item] `json:"data"`
	}](t, w)
	want := domain.PageResult[item]{
		CurrentPage: 1, TotalPages: 1, TotalItems: 2, ItemsPerPage: 2,
		Data: []item{{1, "Paella"}, {2, "Ramen"}},
	}
	if got.Code != http.StatusOK {
		t.Errorf("code = %d", got.Code)
	}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}

	c, w = newResponseTestContext("")
	List(c, NewPageResult[item](nil, PageInfo{CurrentPage: 1}))
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("empty page should serialize an empty array, got %s", w.Body.String())
	}
}

func TestValidationError(t *testing.T) {
	type input struct {
		Name     string `validate:"required"`
		Portions int    `validate:"min=1"`
	}
	err := validator.New().Struct(input{})

	c, w := newResponseTestContext("")
	ValidationError(c, err)

	want := ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  map[string]string{"name": "required", "portions": "min=1"},
	}
	if diff := cmp.Diff(want, decodeResponse[ValidationErrorResponse](t, w)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	c, w = newResponseTestContext("")
	ValidationError(c, errors.New("unexpected EOF"))
	if got := decodeResponse[Response](t, w); w.Code != http.StatusBadRequest || got.Message != "unexpected EOF" {
		t.Errorf("got %d %+v", w.Code, got)
	}
}

func TestBindAndValidate(t *testing.T) {
	type createRecipe struct {
		Name        string   `json:"name" binding:"required,min=3"`
		Ingredients []string `json:"ingredients" binding:"required,min=1"`
		Portions    int      `json:"portions" binding:"omitempty,min=1"`
	}

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantErrors map[string]string
	}{
		{
			name:   "valid",
			body:   `{"name":"Paella","ingredients":["rice","saffron"],"portions":4}`,
			wantOK: true,
		},
		{
			name:       "missing fields use json names",
			body:       `{}`,
			wantErrors: map[string]string{"name": "required", "ingredients": "required"},
		},
		{
			name:       "rule parameters",
			body:       `{"name":"Po","ingredients":["rice"],"portions":-1}`,
			wantErrors: map[string]string{"name": "min=3", "portions": "min=1"},
		},
		{
			name: "malformed json",
			body: `{"name":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext(tt.body)
			var in createRecipe
			ok := BindAndValidate(c, &in)

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (body %s)", ok, tt.wantOK, w.Body.String())
			}
			if ok {
				if in.Name != "Paella" || len(in.Ingredients) != 2 || in.Portions != 4 {
					t.Errorf("bound %+v", in)
				}
				return
			}
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d", w.Code)
			}
			if tt.wantErrors == nil {
				return
			}
			got := decodeResponse[ValidationErrorResponse](t, w)
			if diff := cmp.Diff(tt.wantErrors, got.Errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
