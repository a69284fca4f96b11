package repository

import (
	"context"
	"fmt"
	"time"

	redisapp "kamaru/internal/storage/redis"
)

const scanCount = 100

// RedisTokenRepo tracks live refresh token ids. A token is valid only while
// its key exists.
type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, userID, tokenID string, exp time.Duration) error {
	const op = "repository.RedisTokenRepo.SaveRefreshToken"

	if err := r.Client.Set(ctx, refreshTokenKey(userID, tokenID), "1", exp).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteRefreshToken removes the token and reports whether it was still live.
// Concurrent callers with the same token see true at most once.
func (r *RedisTokenRepo) DeleteRefreshToken(ctx context.Context, userID, tokenID string) (bool, error) {
	const op = "repository.RedisTokenRepo.DeleteRefreshToken"

	deleted, err := r.Client.Del(ctx, refreshTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted > 0, nil
}

func (r *RedisTokenRepo) DeleteAllUserTokens(ctx context.Context, userID string) error {
	const op = "repository.RedisTokenRepo.DeleteAllUserTokens"

	var keys []string

	iter := r.Client.Scan(ctx, 0, refreshTokenKey(userID, "*"), scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func refreshTokenKey(userID, tokenID string) string {
	return "refresh:" + userID + ":" + tokenID
}
