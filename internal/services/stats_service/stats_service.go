package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/metrics"
	"kamaru/internal/repository"

	"github.com/patrickmn/go-cache"
)

const statsKey = "stats"

// StatsService serves the site totals, cached for a short while.
type StatsService struct {
	log   *slog.Logger
	repo  repository.StatsRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewStatsService(log *slog.Logger, repo repository.StatsRepository, ttl time.Duration) *StatsService {
	return &StatsService{
		log:   log,
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *StatsService) Stats(ctx context.Context) (models.Stats, error) {
	const op = "stats_service.Stats"

	if s.ttl > 0 {
		if cached, ok := s.cache.Get(statsKey); ok {
			metrics.StatsCacheTotal.WithLabelValues(metrics.ResultHit).Inc()

			return cached.(models.Stats), nil
		}
		metrics.StatsCacheTotal.WithLabelValues(metrics.ResultMiss).Inc()
	}

	stats, err := s.repo.Counts(ctx)
	if err != nil {
		s.log.Error("failed to count records", slog.String("op", op), sl.Err(err))

		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.ttl > 0 {
		s.cache.Set(statsKey, stats, cache.DefaultExpiration)
	}

	return stats, nil
}
