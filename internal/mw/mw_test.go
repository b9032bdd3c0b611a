package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"presentoir-backend/internal/model"
	"presentoir-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCache(t *testing.T) {
	responses := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(responses, time.Minute))
	r.GET("/stands/:id", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	first := get("/stands/1")
	second := get("/stands/1")
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	Invalidate(responses, "/stands/1")
	get("/stands/1")
	assert.Equal(t, 2, calls)

	get("/missing")
	get("/missing")
	assert.Equal(t, 4, calls, "errors are not cached")
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	r := gin.New()
	r.Use(RateLimiter(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	assert.Equal(t, 0, limiter.Prune(time.Hour))
	assert.Equal(t, 1, limiter.Prune(0))
}

type lookupFunc func(ctx context.Context, id string) (*model.Organization, error)

func (f lookupFunc) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	return f(ctx, id)
}

func TestOrganization(t *testing.T) {
	const known = "2b7e64a4-1f39-4a9e-8b55-7f0c1d2e3f40"
	lookup := lookupFunc(func(_ context.Context, id string) (*model.Organization, error) {
		if id == known {
			return &model.Organization{ID: id, Name: "North"}, nil
		}
		return nil, store.ErrNotFound
	})

	r := gin.New()
	r.Use(Organization(lookup))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentOrganization(c).Name)
	})

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"header", known, "", http.StatusOK},
		{"query fallback", "", "?organization=" + known, http.StatusOK},
		{"missing", "", "", http.StatusBadRequest},
		{"not a uuid", "north", "", http.StatusBadRequest},
		{"unknown", "00000000-0000-0000-0000-000000000000", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(OrganizationHeader, tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "North", w.Body.String())
			}
		})
	}
}
