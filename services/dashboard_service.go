package services

import (
	"context"

	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// DashboardService serves registry aggregates.
type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, *ServiceError)
}

type dashboardServiceImpl struct {
	repo   repository.DashboardRepository
	cache  *CacheManager
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService. cache may be nil.
func NewDashboardService(repo repository.DashboardRepository, cache *CacheManager, logger *zap.Logger) DashboardService {
	return &dashboardServiceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *dashboardServiceImpl) Summary(ctx context.Context) (*models.DashboardSummary, *ServiceError) {
	if cached, ok := s.cache.GetSummary(ctx); ok {
		return cached, nil
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("Failed to compute dashboard summary", zap.Error(err))
		return nil, internal("Failed to load dashboard")
	}
	s.cache.SetSummary(ctx, summary)
	return summary, nil
}
