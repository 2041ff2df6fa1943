package domain

import "context"

// Country is a country or region a recipe originates from.
type Country struct {
	BaseModel
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"size:120;not null;uniqueIndex" json:"slug"`
	Image       string `gorm:"size:512;not null" json:"image"`
	MediaHandle string `gorm:"size:255" json:"-"`
}

// CountryInput carries the fields required to create a country.
type CountryInput struct {
	Name string
}

// CountryPatch carries a partial country update.
type CountryPatch struct {
	Name Field[string]
}

// CountryRepository defines the data access interface for countries.
type CountryRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int) ([]Country, error)
	GetByID(ctx context.Context, id uint) (*Country, error)
	GetBySlug(ctx context.Context, slug string) (*Country, error)
	Create(ctx context.Context, country *Country) error
	Update(ctx context.Context, country *Country) error
	Delete(ctx context.Context, id uint) error
}

// CountryService defines the business logic interface for countries.
type CountryService interface {
	ListCountries(ctx context.Context, req PageRequest) (*PageResult[Country], error)
	GetCountry(ctx context.Context, id uint) (*Country, error)
	GetCountryBySlug(ctx context.Context, slug string) (*Country, error)
	CreateCountry(ctx context.Context, in CountryInput, image *ImageFile) (*Country, error)
	UpdateCountry(ctx context.Context, id uint, patch CountryPatch, image *ImageFile) (*Country, error)
	DeleteCountry(ctx context.Context, id uint) (*Country, error)
}
