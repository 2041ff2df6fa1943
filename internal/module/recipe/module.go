package recipe

import "github.com/gin-gonic/gin"

// RecipeModule implements the app.Module interface for the recipe domain.
type RecipeModule struct {
	handler *RecipeHandler
	upload  []gin.HandlerFunc
}

// NewModule creates a new RecipeModule. upload screens the image of create
// and update requests and may be nil.
// Panics if h is nil.
func NewModule(h *RecipeHandler, upload gin.HandlerFunc) *RecipeModule {
	if h == nil {
		panic("recipe.NewModule: handler must not be nil")
	}
	m := &RecipeModule{handler: h}
	if upload != nil {
		m.upload = []gin.HandlerFunc{upload}
	}
	return m
}

// RegisterRoutes registers the recipe API routes.
func (m *RecipeModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/recipes")
	g.GET("", m.handler.List)
	g.GET("/latest", m.handler.Latest)
	g.GET("/search", m.handler.Search)
	g.GET("/filter/categories", m.handler.ByCategory)
	g.GET("/filter/countrys", m.handler.ByCountry)
	g.GET("/filter/countries", m.handler.ByCountry)
	g.GET("/:ref", m.handler.Get)
	g.POST("", append(m.upload, m.handler.Create)...)
	g.PUT("/:id", append(m.upload, m.handler.Update)...)
	g.DELETE("/:id", m.handler.Delete)
}
