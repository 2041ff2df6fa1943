package category

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCategoryModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	NewModule(&CategoryHandler{}, func(c *gin.Context) { c.Next() }).RegisterRoutes(r.Group("/api/v1"))

	expected := []string{
		http.MethodGet + ":/api/v1/categories",
		http.MethodGet + ":/api/v1/categories/:ref",
		http.MethodPost + ":/api/v1/categories",
		http.MethodPut + ":/api/v1/categories/:id",
		http.MethodDelete + ":/api/v1/categories/:id",
	}

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}
	for _, key := range expected {
		if !registered[key] {
			t.Errorf("expected route %s to be registered", key)
		}
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil handler")
		}
	}()
	NewModule(nil, nil)
}
