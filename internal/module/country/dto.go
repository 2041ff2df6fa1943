package country

// CreateCountryRequest is the multipart form of a new country. The image
// travels in the "image" file field.
type CreateCountryRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
}
