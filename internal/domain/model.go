package domain

import (
	"context"
	"time"
)

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the primary key.
func (m BaseModel) GetID() uint {
	return m.ID
}

// Entity is implemented by every persisted model.
type Entity interface {
	GetID() uint
}

// PageRequest holds the caller-supplied pagination parameters.
type PageRequest struct {
	Page  int
	Limit int
}

// PageResult is a single page of T plus its pagination metadata.
// It is derived per request and never persisted.
type PageResult[T any] struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	Data         []T   `json:"data"`
}

// Field is an optional value in a partial update. Set distinguishes a field the
// caller omitted from one it explicitly sent, including an empty value.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a Field that is present with value v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// MediaRef points at an externally hosted asset. Handle is the opaque value the
// media store needs to delete the asset later.
type MediaRef struct {
	URL    string
	Handle string
}

// ImageFile is an uploaded image stored in a local temporary location.
// Ownership passes to the service it is handed to, which removes the file.
type ImageFile struct {
	Path     string
	Filename string
}

// MediaStore uploads images to, and deletes them from, the media host.
type MediaStore interface {
	Upload(ctx context.Context, localPath, folder string) (MediaRef, error)
	Delete(ctx context.Context, handle string) error
}
