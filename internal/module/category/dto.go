package category

// CreateCategoryRequest is the multipart form of a new category. The image
// travels in the "image" file field.
type CreateCategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
}
