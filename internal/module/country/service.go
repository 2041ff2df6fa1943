package country

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

// countryService implements domain.CountryService.
type countryService struct {
	repo   domain.CountryRepository
	assets *media.Assets
	cache  cache.Cache
	ttl    time.Duration
}

// NewCountryService creates a CountryService. Pages are cached in c for ttl;
// images live in the countrys folder of store.
func NewCountryService(repo domain.CountryRepository, store domain.MediaStore, c cache.Cache, ttl time.Duration) domain.CountryService {
	return &countryService{
		repo:   repo,
		assets: media.NewAssets(store, media.FolderCountries),
		cache:  c,
		ttl:    ttl,
	}
}

func (s *countryService) ListCountries(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Country], error) {
	key := cache.ListKey(cache.KindCountries, req.Page, req.Limit)
	return pkg.CachedListPage(ctx, s.cache, key, s.ttl, req, s.repo.Count, s.repo.List)
}

func (s *countryService) GetCountry(ctx context.Context, id uint) (*domain.Country, error) {
	return withMessage(s.repo.GetByID(ctx, id))
}

func (s *countryService) GetCountryBySlug(ctx context.Context, slug string) (*domain.Country, error) {
	return withMessage(s.repo.GetBySlug(ctx, slug))
}

// CreateCountry uploads the image before storing the row. When the row
// cannot be stored the fresh asset is discarded again.
func (s *countryService) CreateCountry(ctx context.Context, in domain.CountryInput, image *domain.ImageFile) (*domain.Country, error) {
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

	country := &domain.Country{Name: name, Slug: slug, Image: ref.URL, MediaHandle: ref.Handle}
	if err := s.repo.Create(ctx, country); err != nil {
		s.assets.Discard(ctx, ref.Handle)
		return nil, err
	}

	s.invalidate(ctx)
	return country, nil
}

// UpdateCountry applies patch and, when image is given, swaps the stored
// asset. The old asset is dropped only once the new one is persisted.
func (s *countryService) UpdateCountry(ctx context.Context, id uint, patch domain.CountryPatch, image *domain.ImageFile) (*domain.Country, error) {
	defer s.assets.Release(ctx, image)

	country, err := withMessage(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		name, err := pkg.RequiredText("name", patch.Name.Value, maxNameLength)
		if err != nil {
			return nil, err
		}
		if name != country.Name {
			if country.Slug, err = s.freeSlug(ctx, name, country.ID); err != nil {
				return nil, err
			}
			country.Name = name
		}
	}

	var oldHandle, newHandle string
	if image != nil {
		ref, err := s.assets.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		oldHandle, newHandle = country.MediaHandle, ref.Handle
		country.Image, country.MediaHandle = ref.URL, ref.Handle
	}

	if err := s.repo.Update(ctx, country); err != nil {
		if newHandle != "" {
			s.assets.Discard(ctx, newHandle)
		}
		return nil, err
	}
	if oldHandle != "" && oldHandle != newHandle {
		s.assets.Discard(ctx, oldHandle)
	}

	s.invalidate(ctx)
	return country, nil
}

// DeleteCountry removes the image first so a media failure leaves the row in
// place for a retry. Recipes of the country keep existing without one.
func (s *countryService) DeleteCountry(ctx context.Context, id uint) (*domain.Country, error) {
	country, err := withMessage(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, err
	}

	if err := s.assets.Delete(ctx, country.MediaHandle); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return country, nil
}

// freeSlug derives the slug of name and checks no other country holds it.
func (s *countryService) freeSlug(ctx context.Context, name string, self uint) (string, error) {
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
		return "", domain.AlreadyExists(fmt.Sprintf("country %s already exists", slug))
	}
	return slug, nil
}

// invalidate drops cached country pages and recipe pages, which embed countries.
func (s *countryService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, cache.KindCountries, cache.KindRecipes)
}

func withMessage(country *domain.Country, err error) (*domain.Country, error) {
	if domain.IsNotFound(err) {
		return nil, domain.NotFound("country not found")
	}
	return country, err
}
