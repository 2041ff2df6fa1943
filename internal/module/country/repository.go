package country

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// countryRepository implements domain.CountryRepository using GORM.
type countryRepository struct {
	store *pkg.Store[domain.Country]
}

// NewCountryRepository creates a new CountryRepository backed by the given GORM database.
func NewCountryRepository(db *gorm.DB) domain.CountryRepository {
	return &countryRepository{store: pkg.NewStore[domain.Country](db, "id desc")}
}

func (r *countryRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

func (r *countryRepository) List(ctx context.Context, skip, limit int) ([]domain.Country, error) {
	return r.store.Find(ctx, skip, limit)
}

func (r *countryRepository) GetByID(ctx context.Context, id uint) (*domain.Country, error) {
	return r.store.FindByID(ctx, id)
}

func (r *countryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Country, error) {
	return r.store.FindBy(ctx, "slug", slug)
}

func (r *countryRepository) Create(ctx context.Context, country *domain.Country) error {
	return r.store.Insert(ctx, country)
}

func (r *countryRepository) Update(ctx context.Context, country *domain.Country) error {
	return r.store.Update(ctx, country)
}

func (r *countryRepository) Delete(ctx context.Context, id uint) error {
	return r.store.Delete(ctx, id)
}
