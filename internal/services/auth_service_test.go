package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthUserRepo struct {
	interfaces.UserRepository
	user *models.User
}

func (r *fakeAuthUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, errors.New("user not found")
}

func (r *fakeAuthUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

type fakeLoginCache struct {
	counters map[string]int64
	ttls     map[string]time.Duration
}

func newFakeLoginCache() *fakeLoginCache {
	return &fakeLoginCache{
		counters: make(map[string]int64),
		ttls:     make(map[string]time.Duration),
	}
}

func (c *fakeLoginCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := c.counters[key]
	if !ok {
		return errors.New("cache miss")
	}
	if out, ok := dest.(*int64); ok {
		*out = value
		return nil
	}
	return errors.New("unsupported destination")
}

func (c *fakeLoginCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *fakeLoginCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.counters, key)
		delete(c.ttls, key)
	}
	return nil
}

func (c *fakeLoginCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.counters[key]
	return ok, nil
}

func (c *fakeLoginCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

func (c *fakeLoginCache) Increment(ctx context.Context, key string) (int64, error) {
	c.counters[key]++
	return c.counters[key], nil
}

func (c *fakeLoginCache) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	c.ttls[key] = expiration
	return nil
}

func (c *fakeLoginCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return c.ttls[key], nil
}

type authFixture struct {
	service *authService
	cache   *fakeLoginCache
	email   string
}

func newAuthFixture(t *testing.T, maxAttempts int) *authFixture {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("S3cure!Pass"), bcrypt.MinCost)
	require.NoError(t, err)

	email := "dr.martin@clinique.fr"
	userRepo := &fakeAuthUserRepo{user: &models.User{
		ID:       primitive.NewObjectID(),
		Email:    email,
		Password: string(hash),
		Status:   models.UserStatusActive,
	}}
	cache := newFakeLoginCache()

	svc := &authService{
		userRepo:         userRepo,
		cache:            cache,
		jwtSecret:        "test-secret",
		accessTokenTTL:   time.Hour,
		refreshTokenTTL:  24 * time.Hour,
		maxLoginAttempts: maxAttempts,
		lockoutTime:      15 * time.Minute,
		logger:           log,
	}

	return &authFixture{service: svc, cache: cache, email: email}
}

func (fx *authFixture) login(password string) error {
	_, err := fx.service.Login(context.Background(), &LoginRequest{
		Email:    fx.email,
		Password: password,
	})
	return err
}

func TestLoginLocksAfterMaxFailedAttempts(t *testing.T) {
	fx := newAuthFixture(t, 3)

	for i := 0; i < 3; i++ {
		err := fx.login("wrong-password")
		require.EqualError(t, err, "invalid credentials")
	}

	// The correct password no longer gets through once locked
	err := fx.login("S3cure!Pass")
	assert.EqualError(t, err, "too many login attempts")
}

func TestLoginSuccessClearsFailedAttempts(t *testing.T) {
	fx := newAuthFixture(t, 3)

	require.Error(t, fx.login("wrong-password"))
	require.Error(t, fx.login("wrong-password"))
	require.NoError(t, fx.login("S3cure!Pass"))

	assert.Empty(t, fx.cache.counters)

	// The counter restarts from zero after a successful login
	require.Error(t, fx.login("wrong-password"))
	require.Error(t, fx.login("wrong-password"))
	assert.NoError(t, fx.login("S3cure!Pass"))
}

func TestLoginFailureSetsLockoutExpiry(t *testing.T) {
	fx := newAuthFixture(t, 5)

	require.Error(t, fx.login("wrong-password"))

	assert.Equal(t, 15*time.Minute, fx.cache.ttls[loginAttemptsKey(fx.email)])
}

func TestLoginUnknownEmailCountsAsFailedAttempt(t *testing.T) {
	fx := newAuthFixture(t, 2)

	for i := 0; i < 2; i++ {
		_, err := fx.service.Login(context.Background(), &LoginRequest{
			Email:    "inconnu@clinique.fr",
			Password: "whatever1!",
		})
		require.EqualError(t, err, "invalid credentials")
	}

	_, err := fx.service.Login(context.Background(), &LoginRequest{
		Email:    "inconnu@clinique.fr",
		Password: "whatever1!",
	})
	assert.EqualError(t, err, "too many login attempts")
}

func TestLoginLockoutDisabledWhenMaxAttemptsZero(t *testing.T) {
	fx := newAuthFixture(t, 0)

	for i := 0; i < 10; i++ {
		require.EqualError(t, fx.login("wrong-password"), "invalid credentials")
	}

	assert.NoError(t, fx.login("S3cure!Pass"))
	assert.Empty(t, fx.cache.counters)
}
