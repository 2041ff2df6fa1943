package category

import (
	"context"
	"fmt"
	"time"

	"github.com/simp-lee/recipebook/internal/cache"
	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/media"
	"github.com/simp-lee/recipebook/internal/pkg"
)

const maxNameLength = 100

// categoryService implements domain.CategoryService.
type categoryService struct {
	repo   domain.CategoryRepository
	assets *media.Assets
	cache  cache.Cache
	ttl    time.Duration
}

// NewCategoryService creates a CategoryService. Pages are cached in c for ttl;
// images live in the categories folder of store.
func NewCategoryService(repo domain.CategoryRepository, store domain.MediaStore, c cache.Cache, ttl time.Duration) domain.CategoryService {
	return &categoryService{
		repo:   repo,
		assets: media.NewAssets(store, media.FolderCategories),
		cache:  c,
		ttl:    ttl,
	}
}

func (s *categoryService) ListCategories(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Category], error) {
	key := cache.ListKey(cache.KindCategories, req.Page, req.Limit)
	return pkg.CachedListPage(ctx, s.cache, key, s.ttl, req, s.repo.Count, s.repo.List)
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	return withMessage(s.repo.GetByID(ctx, id))
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return withMessage(s.repo.GetBySlug(ctx, slug))
}

// CreateCategory uploads the image before storing the row. When the row
// cannot be stored the fresh asset is discarded again.
func (s *categoryService) CreateCategory(ctx context.Context, in domain.CategoryInput, image *domain.ImageFile) (*domain.Category, error) {
	defer s.assets.Release(ctx, image)

	name, err := pkg.RequiredText("name", in.Name, maxNameLength)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, domain.Validation("image is required")
	}
	slug, err := s.freeSlug(ctx, name, 0)
	if err != nil {
		return nil, err
	}

	ref, err := s.assets.Upload(ctx, image)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name, Slug: slug, Image: ref.URL, MediaHandle: ref.Handle}
	if err := s.repo.Create(ctx, category); err != nil {
		s.assets.Discard(ctx, ref.Handle)
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory applies patch and, when image is given, swaps the stored
// asset. The old asset is dropped only once the new one is persisted.
func (s *categoryService) UpdateCategory(ctx context.Context, id uint, patch domain.CategoryPatch, image *domain.ImageFile) (*domain.Category, error) {
	defer s.assets.Release(ctx, image)

	category, err := withMessage(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		name, err := pkg.RequiredText("name", patch.Name.Value, maxNameLength)
		if err != nil {
			return nil, err
		}
		if name != category.Name {
			if category.Slug, err = s.freeSlug(ctx, name, category.ID); err != nil {
				return nil, err
			}
			category.Name = name
		}
	}

	var oldHandle, newHandle string
	if image != nil {
		ref, err := s.assets.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		oldHandle, newHandle = category.MediaHandle, ref.Handle
		category.Image, category.MediaHandle = ref.URL, ref.Handle
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if newHandle != "" {
			s.assets.Discard(ctx, newHandle)
		}
		return nil, err
	}
	if oldHandle != "" && oldHandle != newHandle {
		s.assets.Discard(ctx, oldHandle)
	}

	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory removes the image first so a media failure leaves the row in
// place for a retry. Categories still used by recipes are refused.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) (*domain.Category, error) {
	category, err := withMessage(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}

	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, domain.Conflict(fmt.Sprintf("category %s still has recipes", category.Name))
	}

	if err := s.assets.Delete(ctx, category.MediaHandle); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

// freeSlug derives the slug of name and checks no other category holds it.
func (s *categoryService) freeSlug(ctx context.Context, name string, self uint) (string, error) {
	slug, err := pkg.Slugify(name)
	if err != nil {
		return "", err
	}
	existing, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case domain.IsNotFound(err):
		return slug, nil
	case err != nil:
		return "", err
	case existing.ID != self:
		return "", domain.AlreadyExists(fmt.Sprintf("category %s already exists", slug))
	}
	return slug, nil
}

// invalidate drops cached category pages and recipe pages, which embed categories.
func (s *categoryService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, cache.KindCategories, cache.KindRecipes)
}

func withMessage(category *domain.Category, err error) (*domain.Category, error) {
	if domain.IsNotFound(err) {
		return nil, domain.NotFound("category not found")
	}
	return category, err
}
