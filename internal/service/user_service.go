package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"usercache-be/internal/cache"
	"usercache-be/internal/entities"
	"usercache-be/internal/metrics"
	"usercache-be/internal/repository"
)

//go:generate mockgen -destination=../mocks/mock_user_service.go -package=mocks usercache-be/internal/service UserService

// UserService defines the interface for user business logic.
// GetUserByID reports a missing user as (nil, nil).
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*entities.User, error)
	CreateUser(ctx context.Context, fields entities.UserFields) (*entities.User, error)
}

type userService struct {
	repo    repository.UserRepository
	cache   cache.Cache
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewUserService creates a user service caching records for ttl
// (cache.DefaultTTL when ttl <= 0)
func NewUserService(
	repo repository.UserRepository,
	cacheStore cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
	m *metrics.Metrics,
) UserService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &userService{
		repo:    repo,
		cache:   cacheStore,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

// GetUserByID looks the user up in the cache first and falls back to the
// repository, filling the cache on a repository hit
func (s *userService) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	key := cache.KeyForUser(id)

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		var user entities.User
		if err := json.Unmarshal([]byte(cached), &user); err != nil {
			return nil, fmt.Errorf("failed to decode cached user: %w", err)
		}
		s.metrics.CacheHits.Inc()
		s.log.Debug("cache hit", zap.String("key", key))
		return &user, nil
	}

	s.metrics.CacheMisses.Inc()
	s.log.Debug("cache miss", zap.String("key", key))

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	// The cache is best-effort on the read path: a failed fill still returns the user
	if err := s.store(ctx, user); err != nil {
		s.log.Warn("failed to populate cache", zap.String("key", key), zap.Error(err))
	}

	return user, nil
}

// CreateUser creates the user in the repository and writes it through to the cache
func (s *userService) CreateUser(ctx context.Context, fields entities.UserFields) (*entities.User, error) {
	user, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	if err := s.store(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) store(ctx context.Context, user *entities.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.cache.Set(ctx, cache.KeyForUser(user.ID), string(data), s.ttl)
}
