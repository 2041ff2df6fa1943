package media

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"go.uber.org/multierr"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Assets manages the images of one resource kind: it uploads temporary files
// to the kind's folder and deletes assets by handle. Media failures surface as
// domain Upstream errors with the cause attached.
type Assets struct {
	store  domain.MediaStore
	folder string
}

// NewAssets returns an Assets bound to folder on store.
func NewAssets(store domain.MediaStore, folder string) *Assets {
	return &Assets{store: store, folder: folder}
}

// Upload sends img to the media host. The temporary file is removed whether or
// not the upload succeeds.
func (a *Assets) Upload(ctx context.Context, img *domain.ImageFile) (domain.MediaRef, error) {
	if img == nil {
		return domain.MediaRef{}, domain.Validation("image is required")
	}

	ref, err := a.store.Upload(ctx, img.Path, a.folder)
	if rmErr := removeTemp(img.Path); rmErr != nil {
		slog.WarnContext(ctx, "failed to remove temporary upload",
			slog.String("path", img.Path),
			slog.String("error", rmErr.Error()),
		)
		if err != nil {
			err = multierr.Append(err, rmErr)
		}
	}
	if err != nil {
		return domain.MediaRef{}, domain.Upstream("image upload failed", err)
	}
	return ref, nil
}

// Release removes the temporary file of an image that will not be uploaded.
func (a *Assets) Release(ctx context.Context, img *domain.ImageFile) {
	if img == nil {
		return
	}
	if err := removeTemp(img.Path); err != nil {
		slog.WarnContext(ctx, "failed to remove temporary upload",
			slog.String("path", img.Path),
			slog.String("error", err.Error()),
		)
	}
}

// Delete removes the asset behind handle. An empty handle is a no-op.
func (a *Assets) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	if err := a.store.Delete(ctx, handle); err != nil {
		return domain.Upstream("image delete failed", err)
	}
	return nil
}

// Discard deletes an asset that is no longer referenced, logging instead of
// failing. Used to roll back uploads and to drop replaced images.
func (a *Assets) Discard(ctx context.Context, handle string) {
	if err := a.Delete(ctx, handle); err != nil {
		slog.WarnContext(ctx, "failed to discard media asset",
			slog.String("folder", a.folder),
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
	}
}

func removeTemp(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
