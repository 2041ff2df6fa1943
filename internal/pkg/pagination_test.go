package pkg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"
	dbtest "gorm.io/gorm/utils/tests"

	"github.com/simp-lee/recipebook/internal/cache"
	"github.com/simp-lee/recipebook/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(queryParams url.Values) *gin.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

// --------------- Paginate ---------------

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		page  int
		limit int
		want  PageInfo
	}{
		{"first page", 45, 1, 20, PageInfo{CurrentPage: 1, TotalPages: 3, TotalItems: 45, Skip: 0, Limit: 20}},
		{"last partial page", 45, 3, 20, PageInfo{CurrentPage: 3, TotalPages: 3, TotalItems: 45, Skip: 40, Limit: 20}},
		{"exact division", 40, 2, 20, PageInfo{CurrentPage: 2, TotalPages: 2, TotalItems: 40, Skip: 20, Limit: 20}},
		{"single item", 1, 1, 10, PageInfo{CurrentPage: 1, TotalPages: 1, TotalItems: 1, Skip: 0, Limit: 10}},
		{"empty collection first page", 0, 1, 20, PageInfo{CurrentPage: 1, TotalPages: 0, TotalItems: 0, Skip: 0, Limit: 20}},
		{"empty collection later page", 0, 4, 20, PageInfo{CurrentPage: 4, TotalPages: 0, TotalItems: 0, Skip: 60, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.total, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("Paginate: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		page  int
	}{
		{"page past the end", 45, 4},
		{"page zero", 45, 0},
		{"negative page", 45, -1},
		{"zero page of empty collection", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(tt.total, tt.page, 20)
			if !domain.IsPageNotFound(err) {
				t.Errorf("expected PageNotFound, got %v", err)
			}
		})
	}
}

func TestPaginate_InvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -3} {
		_, err := Paginate(10, 1, limit)
		if !domain.IsValidation(err) {
			t.Errorf("limit=%d: expected Validation error, got %v", limit, err)
		}
	}
}

func TestPaginate_SkipNeverExceedsTotal(t *testing.T) {
	for total := int64(1); total <= 57; total++ {
		for limit := 1; limit <= 12; limit++ {
			last := int((total + int64(limit) - 1) / int64(limit))
			info, err := Paginate(total, last, limit)
			if err != nil {
				t.Fatalf("total=%d limit=%d: %v", total, limit, err)
			}
			if int64(info.Skip) >= total {
				t.Fatalf("total=%d limit=%d: skip %d past the end", total, limit, info.Skip)
			}
			if _, err := Paginate(total, last+1, limit); !domain.IsPageNotFound(err) {
				t.Fatalf("total=%d limit=%d: page %d should not exist", total, limit, last+1)
			}
		}
	}
}

// --------------- ParsePageRequest ---------------

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  url.Values
		defLim int
		want   domain.PageRequest
	}{
		{"defaults", url.Values{}, 20, domain.PageRequest{Page: 1, Limit: 20}},
		{"custom values", url.Values{"page": {"3"}, "limit": {"50"}}, 20, domain.PageRequest{Page: 3, Limit: 50}},
		{"limit capped", url.Values{"limit": {"500"}}, 20, domain.PageRequest{Page: 1, Limit: MaxLimit}},
		{"unparseable values use defaults", url.Values{"page": {"x"}, "limit": {"ten"}}, 20, domain.PageRequest{Page: 1, Limit: 20}},
		{"explicit zero page passes through", url.Values{"page": {"0"}}, 20, domain.PageRequest{Page: 0, Limit: 20}},
		{"non-positive default falls back", url.Values{}, 0, domain.PageRequest{Page: 1, Limit: DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePageRequest(newTestContext(tt.query), tt.defLim)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// --------------- Window scope ---------------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dbtest.DummyDialector{}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		skip      int
		limit     int
		wantLimit bool
	}{
		{"first page", 0, 10, true},
		{"later page", 40, 20, true},
		{"unbounded", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Window(tt.skip, tt.limit)(newTestDB(t))
			_, hasLimit := result.Statement.Clauses["LIMIT"]
			if hasLimit != tt.wantLimit {
				t.Errorf("LIMIT clause applied=%v, want %v", hasLimit, tt.wantLimit)
			}
		})
	}
}

// --------------- ListPage / CachedListPage ---------------

type fakeCollection struct {
	items   []string
	counts  int
	fetches int
	err     error
}

func (f *fakeCollection) count(context.Context) (int64, error) {
	f.counts++
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.items)), nil
}

func (f *fakeCollection) fetch(_ context.Context, skip, limit int) ([]string, error) {
	f.fetches++
	end := min(skip+limit, len(f.items))
	if skip >= end {
		return nil, nil
	}
	return f.items[skip:end], nil
}

func TestListPage(t *testing.T) {
	col := &fakeCollection{items: []string{"a", "b", "c", "d", "e"}}

	got, err := ListPage(context.Background(), domain.PageRequest{Page: 2, Limit: 2}, col.count, col.fetch)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}

	want := &domain.PageResult[string]{CurrentPage: 2, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2, Data: []string{"c", "d"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListPage mismatch (-want +got):\n%s", diff)
	}
}

func TestListPage_EmptyCollection(t *testing.T) {
	col := &fakeCollection{}

	got, err := ListPage(context.Background(), domain.PageRequest{Page: 1, Limit: 20}, col.count, col.fetch)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if got.Data == nil || len(got.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", got.Data)
	}
	if got.TotalPages != 0 || got.ItemsPerPage != 0 {
		t.Errorf("unexpected metadata: %+v", got)
	}
}

func TestListPage_PageNotFoundSkipsFetch(t *testing.T) {
	col := &fakeCollection{items: []string{"a"}}

	_, err := ListPage(context.Background(), domain.PageRequest{Page: 2, Limit: 20}, col.count, col.fetch)
	if !domain.IsPageNotFound(err) {
		t.Fatalf("expected PageNotFound, got %v", err)
	}
	if col.fetches != 0 {
		t.Errorf("fetch called %d times, want 0", col.fetches)
	}
}

func TestCachedListPage_HitSkipsStore(t *testing.T) {
	ctx := context.Background()
	c := cache.NewTTLStore(time.Minute)
	defer c.Close()
	col := &fakeCollection{items: []string{"a", "b", "c"}}
	req := domain.PageRequest{Page: 1, Limit: 2}
	key := cache.ListKey(cache.KindRecipes, req.Page, req.Limit)

	first, err := CachedListPage(ctx, c, key, time.Minute, req, col.count, col.fetch)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := CachedListPage(ctx, c, key, time.Minute, req, col.count, col.fetch)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if col.counts != 1 || col.fetches != 1 {
		t.Errorf("store hit counts=%d fetches=%d, want 1 and 1", col.counts, col.fetches)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached page differs (-first +second):\n%s", diff)
	}
}

func TestCachedListPage_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	c := cache.NewTTLStore(time.Minute)
	defer c.Close()
	col := &fakeCollection{err: errors.New("db down")}
	req := domain.PageRequest{Page: 1, Limit: 20}
	key := cache.ListKey(cache.KindCategories, 1, 20)

	if _, err := CachedListPage(ctx, c, key, time.Minute, req, col.count, col.fetch); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Get(ctx, key); ok {
		t.Error("failed read must not populate the cache")
	}

	col.err = nil
	col.items = []string{"x"}
	page, err := CachedListPage(ctx, c, key, time.Minute, req, col.count, col.fetch)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", page.TotalItems)
	}
}

func TestCachedListPage_NilCache(t *testing.T) {
	col := &fakeCollection{items: []string{"a"}}
	req := domain.PageRequest{Page: 1, Limit: 20}

	for i := 0; i < 2; i++ {
		if _, err := CachedListPage(context.Background(), nil, "k", time.Minute, req, col.count, col.fetch); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if col.counts != 2 {
		t.Errorf("counts = %d, want 2 without a cache", col.counts)
	}
}
