// Package media stores entity images on a media host and manages the lifetime
// of uploaded assets.
package media

import (
	"fmt"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Folders on the media host, one per resource kind.
const (
	FolderRecipes    = "recipes"
	FolderCategories = "categories"
	FolderCountries  = "countrys"
)

// DefaultTransformation crops to 400x300 and re-encodes at quality 60.
const DefaultTransformation = "c_fill,w_400,h_300,q_60"

// Drivers accepted by New.
const (
	DriverCloudinary = "cloudinary"
	DriverLocal      = "local"
)

// Options selects and configures a media store.
type Options struct {
	Driver         string
	Transformation string
	Cloudinary     CloudinaryConfig
	Local          LocalConfig
}

// New builds the store named by opts.Driver.
func New(opts Options) (domain.MediaStore, error) {
	switch opts.Driver {
	case DriverCloudinary:
		cfg := opts.Cloudinary
		if cfg.Transformation == "" {
			cfg.Transformation = opts.Transformation
		}
		return NewCloudinaryStore(cfg)
	case DriverLocal:
		return NewLocalStore(opts.Local)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", opts.Driver)
	}
}
