package pkg

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/simp-lee/recipebook/internal/domain"
)

// RequiredText trims value and checks it is present and at most max runes long.
// field names the value in the returned Validation error.
func RequiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.Validation(field + " is required")
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", domain.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

// Slugify derives the URL slug of name. Names without a single letter or
// digit that survives transliteration are rejected.
func Slugify(name string) (string, error) {
	s := slug.Make(name)
	if s == "" {
		return "", domain.Validation("name must contain letters or digits")
	}
	return s, nil
}
