package repository_test

import (
	"context"
	"testing"
	"time"

	"kamaru/internal/repository"
	redisapp "kamaru/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupRepo() (*repository.RedisTokenRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisTokenRepo(db), mock
}

func refreshTokenKey(userID, tokenID string) string {
	return "refresh:" + userID + ":" + tokenID
}

func TestSaveRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupRepo()
	userID := uuid.New()
	tokenID := uuid.NewString()
	exp := 24 * time.Hour

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(userID.String(), tokenID), "1", exp).SetVal("OK")
		err := repo.SaveRefreshToken(ctx, userID.String(), tokenID, exp)
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(userID.String(), tokenID), "1", exp).SetErr(redis.ErrClosed)
		err := repo.SaveRefreshToken(ctx, userID.String(), tokenID, exp)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupRepo()
	userID := "user123"
	tokenID := "token-id"

	t.Run("live token", func(t *testing.T) {
		mock.ExpectDel(refreshTokenKey(userID, tokenID)).SetVal(1)
		deleted, err := repo.DeleteRefreshToken(ctx, userID, tokenID)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("already used", func(t *testing.T) {
		mock.ExpectDel(refreshTokenKey(userID, tokenID)).SetVal(0)
		deleted, err := repo.DeleteRefreshToken(ctx, userID, tokenID)
		assert.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectDel(refreshTokenKey(userID, tokenID)).SetErr(redis.ErrClosed)
		_, err := repo.DeleteRefreshToken(ctx, userID, tokenID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAllUserTokens(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupRepo()
	userID := "user123"
	pattern := refreshTokenKey(userID, "*")

	t.Run("successful delete all", func(t *testing.T) {
		mock.ExpectScan(0, pattern, 100).SetVal([]string{"token1"}, 7)
		mock.ExpectScan(7, pattern, 100).SetVal([]string{"token2"}, 0)
		mock.ExpectDel("token1", "token2").SetVal(2)
		err := repo.DeleteAllUserTokens(ctx, userID)
		assert.NoError(t, err)
	})

	t.Run("no tokens", func(t *testing.T) {
		mock.ExpectScan(0, pattern, 100).SetVal([]string{}, 0)
		err := repo.DeleteAllUserTokens(ctx, userID)
		assert.NoError(t, err)
	})

	t.Run("scan error", func(t *testing.T) {
		mock.ExpectScan(0, pattern, 100).SetErr(redis.ErrClosed)
		err := repo.DeleteAllUserTokens(ctx, userID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	t.Run("del error", func(t *testing.T) {
		mock.ExpectScan(0, pattern, 100).SetVal([]string{"token1"}, 0)
		mock.ExpectDel("token1").SetErr(redis.ErrClosed)
		err := repo.DeleteAllUserTokens(ctx, userID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
