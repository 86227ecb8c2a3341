package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"usercache-be/internal/cache"
	"usercache-be/internal/entities"
	"usercache-be/internal/metrics"
	"usercache-be/internal/mocks"
	"usercache-be/internal/repository"
	"usercache-be/internal/service"
)

var fixedDate = time.Date(2025, 1, 31, 10, 12, 14, 337000000, time.UTC)

func testUser() *entities.User {
	return &entities.User{
		ID:        "123",
		Name:      "Test User",
		Email:     "test@example.com",
		CreatedAt: fixedDate,
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

type fixture struct {
	repo    *mocks.MockUserRepository
	cache   *mocks.MockCache
	metrics *metrics.Metrics
	svc     service.UserService
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:    mocks.NewMockUserRepository(ctrl),
		cache:   mocks.NewMockCache(ctrl),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	f.svc = service.NewUserService(f.repo, f.cache, 0, zap.NewNop(), f.metrics)
	return f
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	infraErr := errors.New("connection refused")

	tests := map[string]struct {
		setupMock func(t *testing.T, f *fixture)
		wantUser  *entities.User
		wantErr   error
		wantHits  float64
		wantMiss  float64
	}{
		"should return cached user if available": {
			setupMock: func(t *testing.T, f *fixture) {
				f.cache.EXPECT().Get(ctx, "user:123").Return(mustJSON(t, testUser()), true, nil)
				f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)
			},
			wantUser: testUser(),
			wantHits: 1,
		},
		"should fetch from repository and cache if not in cache": {
			setupMock: func(t *testing.T, f *fixture) {
				gomock.InOrder(
					f.cache.EXPECT().Get(ctx, "user:123").Return("", false, nil),
					f.repo.EXPECT().FindByID(ctx, "123").Return(testUser(), nil),
					f.cache.EXPECT().Set(ctx, "user:123", mustJSON(t, testUser()), cache.DefaultTTL).Return(nil),
				)
			},
			wantUser: testUser(),
			wantMiss: 1,
		},
		"should return nil without caching when user does not exist": {
			setupMock: func(t *testing.T, f *fixture) {
				f.cache.EXPECT().Get(ctx, "user:123").Return("", false, nil)
				f.repo.EXPECT().FindByID(ctx, "123").Return(nil, nil)
				f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantMiss: 1,
		},
		"should still return user when cache fill fails": {
			setupMock: func(t *testing.T, f *fixture) {
				f.cache.EXPECT().Get(ctx, "user:123").Return("", false, nil)
				f.repo.EXPECT().FindByID(ctx, "123").Return(testUser(), nil)
				f.cache.EXPECT().Set(ctx, "user:123", gomock.Any(), cache.DefaultTTL).Return(infraErr)
			},
			wantUser: testUser(),
			wantMiss: 1,
		},
		"should propagate cache read failure": {
			setupMock: func(t *testing.T, f *fixture) {
				f.cache.EXPECT().Get(ctx, "user:123").Return("", false, infraErr)
				f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: infraErr,
		},
		"should propagate repository failure": {
			setupMock: func(t *testing.T, f *fixture) {
				f.cache.EXPECT().Get(ctx, "user:123").Return("", false, nil)
				f.repo.EXPECT().FindByID(ctx, "123").Return(nil, infraErr)
			},
			wantErr:  infraErr,
			wantMiss: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			user, err := f.svc.GetUserByID(ctx, "123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUser, user)
			}
			assert.Equal(t, tt.wantHits, testutil.ToFloat64(f.metrics.CacheHits))
			assert.Equal(t, tt.wantMiss, testutil.ToFloat64(f.metrics.CacheMisses))
		})
	}
}

func TestUserService_GetUserByID_CorruptCacheEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cache.EXPECT().Get(ctx, "user:123").Return("{not json", true, nil)

	user, err := f.svc.GetUserByID(ctx, "123")

	require.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "failed to decode cached user")
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	fields := entities.UserFields{Name: "Test User", Email: "test@example.com"}
	infraErr := errors.New("connection refused")

	t.Run("should create user and cache it", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.repo.EXPECT().Create(ctx, fields).Return(testUser(), nil),
			f.cache.EXPECT().Set(ctx, "user:123", mustJSON(t, testUser()), cache.DefaultTTL).Return(nil),
		)

		user, err := f.svc.CreateUser(ctx, fields)

		require.NoError(t, err)
		assert.Equal(t, testUser(), user)
	})

	t.Run("should propagate repository failure without caching", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Create(ctx, fields).Return(nil, infraErr)
		f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		user, err := f.svc.CreateUser(ctx, fields)

		assert.ErrorIs(t, err, infraErr)
		assert.Nil(t, user)
	})

	t.Run("should propagate cache write failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Create(ctx, fields).Return(testUser(), nil)
		f.cache.EXPECT().Set(ctx, "user:123", gomock.Any(), cache.DefaultTTL).Return(infraErr)

		user, err := f.svc.CreateUser(ctx, fields)

		assert.ErrorIs(t, err, infraErr)
		assert.Nil(t, user)
	})
}

func TestUserService_UsesConfiguredTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	cacheStore := mocks.NewMockCache(ctrl)
	svc := service.NewUserService(repo, cacheStore, time.Minute, zap.NewNop(), metrics.New(prometheus.NewRegistry()))
	ctx := context.Background()

	repo.EXPECT().Create(ctx, gomock.Any()).Return(testUser(), nil)
	cacheStore.EXPECT().Set(ctx, "user:123", gomock.Any(), time.Minute).Return(nil)

	_, err := svc.CreateUser(ctx, entities.UserFields{Name: "Test User", Email: "test@example.com"})
	require.NoError(t, err)
}

// Create followed by a lookup is served from the cache without touching the repository again.
func TestUserService_CreateThenGetServedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	memRepo := repository.NewMemoryUserRepository()
	repo := mocks.NewMockUserRepository(ctrl)
	cacheStore, err := cache.NewMemoryCache(100)
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewUserService(repo, cacheStore, 0, zap.NewNop(), m)
	ctx := context.Background()

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(memRepo.Create).Times(1)
	repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)

	created, err := svc.CreateUser(ctx, entities.UserFields{Name: "Test User", Email: "test@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Test User", created.Name)
	assert.Equal(t, "test@example.com", created.Email)

	got, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = created.CreatedAt
	assert.Equal(t, created, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
}

func TestUserService_UnknownIDLeavesCacheEmpty(t *testing.T) {
	cacheStore, err := cache.NewMemoryCache(100)
	require.NoError(t, err)
	svc := service.NewUserService(repository.NewMemoryUserRepository(), cacheStore, 0, zap.NewNop(), metrics.New(prometheus.NewRegistry()))

	user, err := svc.GetUserByID(context.Background(), "nonexistent")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, 0, cacheStore.Len())
}

func TestUserService_CacheRoundTripPreservesUser(t *testing.T) {
	users := []*entities.User{
		testUser(),
		{ID: "a", Name: "Zoë Ünicode", Email: "zoe+tag@example.co.uk", CreatedAt: time.Date(1999, 12, 31, 23, 59, 59, 999999999, time.UTC)},
		{ID: "b", Name: `quote " and \ backslash`, Email: "q@example.com", CreatedAt: time.Unix(0, 0).UTC()},
	}

	for _, want := range users {
		data, err := json.Marshal(want)
		require.NoError(t, err)

		var got entities.User
		require.NoError(t, json.Unmarshal(data, &got))

		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Email, got.Email)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}
}
