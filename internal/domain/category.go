package domain

import "context"

// Category groups recipes (e.g. desserts, soups).
type Category struct {
	BaseModel
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Image       string `gorm:"size:512;not null" json:"image"`
	MediaHandle string `gorm:"size:255" json:"-"`
}

// CategoryInput carries the fields required to create a category.
type CategoryInput struct {
	Name string
}

// CategoryPatch carries a partial category update.
type CategoryPatch struct {
	Name Field[string]
}

// CategoryRepository defines the data access interface for categories.
type CategoryRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int) ([]Category, error)
	GetByID(ctx context.Context, id uint) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	// InUse reports whether any recipe still references the category.
	InUse(ctx context.Context, id uint) (bool, error)
}

// CategoryService defines the business logic interface for categories.
type CategoryService interface {
	ListCategories(ctx context.Context, req PageRequest) (*PageResult[Category], error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, in CategoryInput, image *ImageFile) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, patch CategoryPatch, image *ImageFile) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) (*Category, error)
}
