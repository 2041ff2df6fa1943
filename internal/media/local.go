package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/simp-lee/recipebook/internal/domain"
)

// LocalConfig configures the disk-backed store.
type LocalConfig struct {
	// Dir is the root directory assets are written to.
	Dir string
	// BaseURL is the public origin the router serves /media from.
	BaseURL string
}

// URLPrefix is the route under which the router serves LocalStore assets.
const URLPrefix = "/media"

// LocalStore keeps images on local disk for development without a media host.
// The asset handle is the slash-separated path below Dir.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore, creating cfg.Dir if needed.
func NewLocalStore(cfg LocalConfig) (*LocalStore, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("local media dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %q: %w", cfg.Dir, err)
	}
	return &LocalStore{dir: cfg.Dir, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// Dir returns the root directory, for serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Upload copies the file at localPath into folder under a random name.
func (s *LocalStore) Upload(ctx context.Context, localPath, folder string) (domain.MediaRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MediaRef{}, err
	}

	handle := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
	target, err := s.resolve(handle)
	if err != nil {
		return domain.MediaRef{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return domain.MediaRef{}, err
	}
	if err := copyFile(localPath, target); err != nil {
		return domain.MediaRef{}, err
	}

	return domain.MediaRef{URL: s.baseURL + URLPrefix + "/" + handle, Handle: handle}, nil
}

// Delete removes the asset. A missing asset counts as deleted.
func (s *LocalStore) Delete(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps handle to a path inside the store root.
func (s *LocalStore) resolve(handle string) (string, error) {
	clean := path.Clean("/" + handle)
	if clean == "/" || clean != "/"+handle {
		return "", fmt.Errorf("invalid media handle %q", handle)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean[1:])), nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
