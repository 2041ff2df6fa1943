package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/simp-lee/recipebook/internal/domain"
)

// CloudinaryConfig holds Cloudinary credentials. URL, when set, takes
// precedence over the individual fields.
type CloudinaryConfig struct {
	URL            string
	CloudName      string
	APIKey         string
	APISecret      string
	Transformation string
}

// uploadAPI is the subset of the Cloudinary upload API the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps images on Cloudinary. The asset handle is the
// Cloudinary public id.
type CloudinaryStore struct {
	api            uploadAPI
	transformation string
}

// NewCloudinaryStore creates a CloudinaryStore from cfg.
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, errors.New("cloudinary credentials are required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return newCloudinaryStore(&cld.Upload, cfg.Transformation), nil
}

func newCloudinaryStore(api uploadAPI, transformation string) *CloudinaryStore {
	if transformation == "" {
		transformation = DefaultTransformation
	}
	return &CloudinaryStore{api: api, transformation: transformation}
}

// Upload sends the file at localPath to folder with the configured
// transformation applied on ingest.
func (s *CloudinaryStore) Upload(ctx context.Context, localPath, folder string) (domain.MediaRef, error) {
	res, err := s.api.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         folder,
		Transformation: s.transformation,
	})
	if err != nil {
		return domain.MediaRef{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return domain.MediaRef{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" || res.PublicID == "" {
		return domain.MediaRef{}, errors.New("cloudinary upload: empty response")
	}
	return domain.MediaRef{URL: res.SecureURL, Handle: res.PublicID}, nil
}

// Delete destroys the asset with public id handle. An asset that is already
// gone counts as deleted.
func (s *CloudinaryStore) Delete(ctx context.Context, handle string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
}
