package category

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// categoryRepository implements domain.CategoryRepository using GORM.
type categoryRepository struct {
	store *pkg.Store[domain.Category]
}

// NewCategoryRepository creates a new CategoryRepository backed by the given GORM database.
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{store: pkg.NewStore[domain.Category](db, "id desc")}
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

func (r *categoryRepository) List(ctx context.Context, skip, limit int) ([]domain.Category, error) {
	return r.store.Find(ctx, skip, limit)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	return r.store.FindByID(ctx, id)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.store.FindBy(ctx, "slug", slug)
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.store.Insert(ctx, category)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return r.store.Update(ctx, category)
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.store.Delete(ctx, id)
}

// InUse reports whether a recipe still points at the category.
func (r *categoryRepository) InUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.store.DB(ctx).Model(&domain.Recipe{}).Where("category_id = ?", id).Limit(1).Count(&n).Error
	if err != nil {
		return false, pkg.MapDBError(err)
	}
	return n > 0, nil
}
