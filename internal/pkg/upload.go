package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/recipebook/internal/domain"
)

// ImageField is the multipart field carrying an entity image.
const ImageField = "image"

// SaveUpload writes the multipart file in field to dir under a random name.
// It returns nil without error when the request carries no such file.
// The caller owns the returned file and must remove it.
func SaveUpload(c *gin.Context, field, dir string) (*domain.ImageFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, domain.Validation(fmt.Sprintf("invalid %s upload", field))
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to store upload", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to store upload", err)
	}

	return &domain.ImageFile{Path: path, Filename: fh.Filename}, nil
}
