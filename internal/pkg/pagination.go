package pkg

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/recipebook/internal/cache"
	"github.com/simp-lee/recipebook/internal/domain"
)

const (
	defaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageInfo is the window of a collection selected by a page request.
type PageInfo struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	Skip        int
	Limit       int
}

// Paginate computes the page window for totalItems split into pages of limit.
// Page 1 of an empty collection is valid; any other page outside
// [1, totalPages] fails with a PageNotFound error.
func Paginate(totalItems int64, page, limit int) (PageInfo, error) {
	if limit < 1 {
		return PageInfo{}, domain.Validation("limit must be at least 1")
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	if page < 1 || (totalPages > 0 && page > totalPages) {
		return PageInfo{}, domain.ErrPageNotFound
	}

	return PageInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		Skip:        (page - 1) * limit,
		Limit:       limit,
	}, nil
}

// ParsePageRequest reads the "page" and "limit" query parameters. Missing or
// unparseable values fall back to page 1 and defaultLimit; limit is capped at
// MaxLimit. Out-of-range pages are left for Paginate to reject.
func ParsePageRequest(c *gin.Context, defaultLimit int) domain.PageRequest {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	return domain.PageRequest{
		Page:  QueryInt(c, "page", defaultPage),
		Limit: min(QueryInt(c, "limit", defaultLimit), MaxLimit),
	}
}

// QueryInt returns the integer query parameter key, or def when it is absent or
// not a number.
func QueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Window returns a GORM scope that applies OFFSET and LIMIT.
// A non-positive limit leaves the query unbounded.
func Window(skip, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

// CountFunc counts the items of a collection.
type CountFunc func(ctx context.Context) (int64, error)

// FetchFunc loads one window of a collection.
type FetchFunc[T any] func(ctx context.Context, skip, limit int) ([]T, error)

// ListPage counts the collection, validates the requested page against it and
// loads that page.
func ListPage[T any](ctx context.Context, req domain.PageRequest, count CountFunc, fetch FetchFunc[T]) (*domain.PageResult[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	info, err := Paginate(total, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	items, err := fetch(ctx, info.Skip, info.Limit)
	if err != nil {
		return nil, err
	}

	return NewPageResult(items, info), nil
}

// CachedListPage serves the page from c when key is present and otherwise
// builds it with ListPage and stores it for ttl. A hit skips the count.
// Errors are never cached.
func CachedListPage[T any](ctx context.Context, c cache.Cache, key string, ttl time.Duration, req domain.PageRequest, count CountFunc, fetch FetchFunc[T]) (*domain.PageResult[T], error) {
	if page, ok := cache.GetAs[*domain.PageResult[T]](ctx, c, key); ok {
		return page, nil
	}

	page, err := ListPage(ctx, req, count, fetch)
	if err != nil {
		return nil, err
	}

	if c != nil {
		c.Set(ctx, key, page, ttl)
	}
	return page, nil
}

// NewPageResult assembles a PageResult. ItemsPerPage is the number of items on
// the returned page.
func NewPageResult[T any](items []T, info PageInfo) *domain.PageResult[T] {
	if items == nil {
		items = []T{}
	}

	return &domain.PageResult[T]{
		CurrentPage:  info.CurrentPage,
		TotalPages:   info.TotalPages,
		TotalItems:   info.TotalItems,
		ItemsPerPage: len(items),
		Data:         items,
	}
}
