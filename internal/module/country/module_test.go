package country

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCountryModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	NewModule(&CountryHandler{}, func(c *gin.Context) { c.Next() }).RegisterRoutes(r.Group("/api/v1"))

	var expected []string
	for _, prefix := range []string{"/api/v1/countrys", "/api/v1/countries"} {
		expected = append(expected,
			http.MethodGet+":"+prefix,
			http.MethodGet+":"+prefix+"/:ref",
			http.MethodPost+":"+prefix,
			http.MethodPut+":"+prefix+"/:id",
			http.MethodDelete+":"+prefix+"/:id",
		)
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
