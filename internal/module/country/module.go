package country

import "github.com/gin-gonic/gin"

// CountryModule implements the app.Module interface for the country domain.
type CountryModule struct {
	handler *CountryHandler
	upload  []gin.HandlerFunc
}

// NewModule creates a new CountryModule. upload screens the image of
// create and update requests and may be nil.
// Panics if h is nil.
func NewModule(h *CountryHandler, upload gin.HandlerFunc) *CountryModule {
	if h == nil {
		panic("country.NewModule: handler must not be nil")
	}
	m := &CountryModule{handler: h}
	if upload != nil {
		m.upload = []gin.HandlerFunc{upload}
	}
	return m
}

// RegisterRoutes registers the country API routes under both /countrys and
// /countries.
func (m *CountryModule) RegisterRoutes(api *gin.RouterGroup) {
	for _, prefix := range []string{"/countrys", "/countries"} {
		m.register(api.Group(prefix))
	}
}

func (m *CountryModule) register(g *gin.RouterGroup) {
	g.GET("", m.handler.List)
	g.GET("/:ref", m.handler.Get)
	g.POST("", append(m.upload, m.handler.Create)...)
	g.PUT("/:id", append(m.upload, m.handler.Update)...)
	g.DELETE("/:id", m.handler.Delete)
}
