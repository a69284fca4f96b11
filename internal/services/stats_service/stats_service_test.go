package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	"kamaru/internal/metrics"
	services "kamaru/internal/services/stats_service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Counts(ctx context.Context) (models.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Stats), args.Error(1)
}

var ctx = context.Background()

func TestStats_Cached(t *testing.T) {
	repo := new(MockStatsRepository)
	service := services.NewStatsService(slogdiscard.NewDiscardLogger(), repo, time.Minute)

	want := models.Stats{TotalEvents: 3, TotalParticipants: 10, TotalUsers: 2}
	repo.On("Counts", ctx).Return(want, nil).Once()

	hits := testutil.ToFloat64(metrics.StatsCacheTotal.WithLabelValues(metrics.ResultHit))

	for i := 0; i < 3; i++ {
		got, err := service.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	repo.AssertNumberOfCalls(t, "Counts", 1)
	assert.Equal(t, hits+2, testutil.ToFloat64(metrics.StatsCacheTotal.WithLabelValues(metrics.ResultHit)))
}

func TestStats_NoCache(t *testing.T) {
	repo := new(MockStatsRepository)
	service := services.NewStatsService(slogdiscard.NewDiscardLogger(), repo, 0)

	repo.On("Counts", ctx).Return(models.Stats{TotalVideos: 1}, nil)

	_, err := service.Stats(ctx)
	require.NoError(t, err)
	_, err = service.Stats(ctx)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "Counts", 2)
}

func TestStats_ErrorNotCached(t *testing.T) {
	repo := new(MockStatsRepository)
	service := services.NewStatsService(slogdiscard.NewDiscardLogger(), repo, time.Minute)

	repo.On("Counts", ctx).Return(models.Stats{}, errors.New("db down")).Once()
	repo.On("Counts", ctx).Return(models.Stats{TotalUsers: 1}, nil).Once()

	_, err := service.Stats(ctx)
	require.Error(t, err)

	got, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalUsers)
}
