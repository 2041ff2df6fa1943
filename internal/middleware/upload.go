package middleware

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
	"github.com/simp-lee/recipebook/internal/pkg"
)

// DefaultMaxImageBytes is the upload size limit used when none is configured.
const DefaultMaxImageBytes int64 = 4 << 20

// multipartOverhead is the allowance for the non-file form fields on top of
// the image size limit.
const multipartOverhead int64 = 1 << 20

var allowedImageExts = map[string]bool{
	".png":  true,
	".svg":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".avif": true,
}

// ImageUpload returns a gin middleware that screens the image in the multipart
// field before the handler runs. It rejects files whose extension is not an
// allowed image type, whose size exceeds maxBytes, or whose content is not an
// image. Requests without the file pass through; the handler decides whether
// the image is required.
func ImageUpload(field string, maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

		fh, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				c.Next()
				return
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				reject(c, "file too large")
				return
			}
			reject(c, "invalid multipart form")
			return
		}

		if !allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
			reject(c, "file type not allowed")
			return
		}
		if fh.Size > maxBytes {
			reject(c, "file too large")
			return
		}
		if !isImage(fh) {
			reject(c, "file type not allowed")
			return
		}

		c.Next()
	}
}

// isImage sniffs the uploaded content.
func isImage(fh *multipart.FileHeader) bool {
	f, err := fh.Open()
	if err != nil {
		return false
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return false
	}
	for ; mt != nil; mt = mt.Parent() {
		if strings.HasPrefix(mt.String(), "image/") {
			return true
		}
	}
	return false
}

func reject(c *gin.Context, message string) {
	c.Abort()
	pkg.Error(c, domain.Validation(message))
}
