package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"

	"github.com/Jaywinner/academy_api/model"
)

// RedisService fronts the leaderboard reads. XP writes invalidate the cached
// rankings so the board never lags a grant by more than one request.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client

	leaderboardTTL time.Duration
}

const REDIS_SVC = "redis_svc"

const leaderboardKeyPrefix = "leaderboard:"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	svc.leaderboardTTL = 30 * time.Second
	if ttl, err := time.ParseDuration(os.Getenv("LEADERBOARD_CACHE_TTL")); err == nil && ttl > 0 {
		svc.leaderboardTTL = ttl
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis == nil {
		return nil
	}
	if _, err := svc.redis.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (svc *RedisService) GetClient() *redis.Client {
	return svc.redis
}

// GetCachedLeaderboard returns the cached rankings for the given limit, or
// nil on a miss. Cache failures are returned so the caller can decide to
// fall through to the database.
func (svc *RedisService) GetCachedLeaderboard(ctx context.Context, limit int) ([]model.User, error) {
	if svc.redis == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	key := leaderboardKeyPrefix + strconv.Itoa(limit)
	result, err := svc.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := json.Unmarshal([]byte(result), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (svc *RedisService) CacheLeaderboard(ctx context.Context, limit int, users []model.User) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	key := leaderboardKeyPrefix + strconv.Itoa(limit)
	return svc.redis.Set(ctx, key, data, svc.leaderboardTTL).Err()
}

// InvalidateLeaderboard drops every cached ranking slice. Called after any
// XP mutation.
func (svc *RedisService) InvalidateLeaderboard(ctx context.Context) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	keys, err := svc.redis.Keys(ctx, leaderboardKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return svc.redis.Del(ctx, keys...).Err()
}
