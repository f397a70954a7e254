package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRateLimitStore struct {
	counts      map[string]int64
	expirations map[string]time.Duration
	calls       int
	failing     bool
}

func newFakeRateLimitStore() *fakeRateLimitStore {
	return &fakeRateLimitStore{
		counts:      make(map[string]int64),
		expirations: make(map[string]time.Duration),
	}
}

func (s *fakeRateLimitStore) Increment(ctx context.Context, key string) (int64, error) {
	s.calls++
	if s.failing {
		return 0, errors.New("connection refused")
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *fakeRateLimitStore) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	s.expirations[key] = expiration
	return nil
}

func rateLimitRouter(store RateLimitStore, perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(store, perMinute))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestRateLimitAllowsRequestsUnderLimit(t *testing.T) {
	store := newFakeRateLimitStore()
	router := rateLimitRouter(store, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitBlocksRequestsOverLimit(t *testing.T) {
	store := newFakeRateLimitStore()
	router := rateLimitRouter(store, 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimitDisabledWhenLimitIsZero(t *testing.T) {
	store := newFakeRateLimitStore()
	router := rateLimitRouter(store, 0)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Zero(t, store.calls)
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := newFakeRateLimitStore()
	store.failing = true
	router := rateLimitRouter(store, 1)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitExpiresCounterWindow(t *testing.T) {
	store := newFakeRateLimitStore()
	router := rateLimitRouter(store, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Len(t, store.expirations, 1)
	for _, expiration := range store.expirations {
		assert.Equal(t, 2*time.Minute, expiration)
	}
}
