package category

import "github.com/gin-gonic/gin"

// CategoryModule implements the app.Module interface for the category domain.
type CategoryModule struct {
	handler *CategoryHandler
	upload  []gin.HandlerFunc
}

// NewModule creates a new CategoryModule. upload screens the image of
// create and update requests and may be nil.
// Panics if h is nil.
func NewModule(h *CategoryHandler, upload gin.HandlerFunc) *CategoryModule {
	if h == nil {
		panic("category.NewModule: handler must not be nil")
	}
	m := &CategoryModule{handler: h}
	if upload != nil {
		m.upload = []gin.HandlerFunc{upload}
	}
	return m
}

// RegisterRoutes registers the category API routes.
func (m *CategoryModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/categories")
	g.GET("", m.handler.List)
	g.GET("/:ref", m.handler.Get)
	g.POST("", append(m.upload, m.handler.Create)...)
	g.PUT("/:id", append(m.upload, m.handler.Update)...)
	g.DELETE("/:id", m.handler.Delete)
}
