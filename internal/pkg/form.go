package pkg

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Form readers for partial updates. A key missing from the submitted form
// yields an unset Field; a present key, even with an empty value, yields a set
// one so the service can tell "leave alone" from "clear".

// FormString reads a trimmed string field.
func FormString(c *gin.Context, key string) domain.Field[string] {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Field[string]{}
	}
	return domain.Some(strings.TrimSpace(v))
}

// FormStrings reads a repeated field. Both "key" and "key[]" are accepted.
// Blank entries are dropped.
func FormStrings(c *gin.Context, key string) domain.Field[[]string] {
	values, ok := c.GetPostFormArray(key)
	if !ok {
		values, ok = c.GetPostFormArray(key + "[]")
	}
	if !ok {
		return domain.Field[[]string]{}
	}
	return domain.Some(CleanStrings(values))
}

// FormInt reads an integer field. An empty value yields zero.
func FormInt(c *gin.Context, key string) (domain.Field[int], error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Field[int]{}, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.Some(0), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return domain.Field[int]{}, domain.Validation(key + " must be an integer")
	}
	return domain.Some(n), nil
}

// FormID reads a required reference id. An empty value yields zero.
func FormID(c *gin.Context, key string) (domain.Field[uint], error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Field[uint]{}, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.Some[uint](0), nil
	}
	id, err := ParseID(v)
	if err != nil {
		return domain.Field[uint]{}, domain.Validation(key + " must be a positive integer")
	}
	return domain.Some(id), nil
}

// FormOptionalID reads an optional reference id. An empty value yields a set
// Field holding nil, which clears the reference.
func FormOptionalID(c *gin.Context, key string) (domain.Field[*uint], error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Field[*uint]{}, nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.Some[*uint](nil), nil
	}
	id, err := ParseID(v)
	if err != nil {
		return domain.Field[*uint]{}, domain.Validation(key + " must be a positive integer")
	}
	return domain.Some(&id), nil
}

// ParseID parses a positive integer id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}

// CleanStrings trims every entry and drops the blank ones.
func CleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// PathID reads a positive integer path parameter.
func PathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := ParseID(raw)
	if err != nil {
		return 0, domain.Validation("invalid " + name + ": " + raw)
	}
	return id, nil
}

// PathRef reads a path parameter that holds either a numeric id or a slug.
// The slug form is always returned; id is zero unless the value parses as
// one. Slugs may be all digits, so callers fall back to slug when the id
// lookup misses.
func PathRef(c *gin.Context, name string) (id uint, slug string) {
	raw := strings.TrimSpace(c.Param(name))
	id, _ = ParseID(raw)
	return id, strings.ToLower(raw)
}
