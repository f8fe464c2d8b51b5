package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// MunicipalityService defines municipality management.
type MunicipalityService interface {
	List(ctx context.Context) ([]models.MunicipalityWithCount, *ServiceError)
	Get(ctx context.Context, id uuid.UUID) (*models.Municipality, *ServiceError)
	Create(ctx context.Context, req *models.MunicipalityRequest) (*models.Municipality, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.MunicipalityRequest) (*models.Municipality, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type municipalityServiceImpl struct {
	repo   repository.MunicipalityRepository
	cache  *CacheManager
	logger *zap.Logger
}

// NewMunicipalityService creates a new MunicipalityService.
func NewMunicipalityService(repo repository.MunicipalityRepository, cache *CacheManager, logger *zap.Logger) MunicipalityService {
	return &municipalityServiceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *municipalityServiceImpl) List(ctx context.Context) ([]models.MunicipalityWithCount, *ServiceError) {
	list, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		s.logger.Error("Failed to list municipalities", zap.Error(err))
		return nil, internal("Failed to list municipalities")
	}
	return list, nil
}

func (s *municipalityServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Municipality, *ServiceError) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Municipality not found")
		}
		s.logger.Error("Failed to load municipality", zap.Error(err))
		return nil, internal("Failed to load municipality")
	}
	return m, nil
}

func (s *municipalityServiceImpl) Create(ctx context.Context, req *models.MunicipalityRequest) (*models.Municipality, *ServiceError) {
	m := &models.Municipality{}
	applyMunicipalityRequest(m, req)

	if err := s.repo.Create(ctx, m); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflict("Municipality already exists")
		}
		s.logger.Error("Failed to create municipality", zap.Error(err))
		return nil, internal("Failed to create municipality")
	}
	s.cache.Invalidate(ctx)
	s.logger.Info("Municipality created", zap.String("name", m.Name))
	return m, nil
}

func (s *municipalityServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.MunicipalityRequest) (*models.Municipality, *ServiceError) {
	m, svcErr := s.Get(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	applyMunicipalityRequest(m, req)

	if err := s.repo.Update(ctx, m); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflict("Municipality already exists")
		}
		s.logger.Error("Failed to update municipality", zap.Error(err))
		return nil, internal("Failed to update municipality")
	}
	s.cache.Invalidate(ctx)
	return m, nil
}

func (s *municipalityServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	n, err := s.repo.CountTitles(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count municipality titles", zap.Error(err))
		return internal("Failed to delete municipality")
	}
	if n > 0 {
		return conflict("Municipality still has titles assigned")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case repository.IsNotFound(err):
			return notFound("Municipality not found")
		case repository.IsForeignKeyViolation(err):
			return conflict("Municipality still has titles assigned")
		}
		s.logger.Error("Failed to delete municipality", zap.Error(err))
		return internal("Failed to delete municipality")
	}
	s.cache.Invalidate(ctx)
	return nil
}

func applyMunicipalityRequest(m *models.Municipality, req *models.MunicipalityRequest) {
	m.Name = strings.TrimSpace(req.Name)
	m.District = strings.TrimSpace(req.District)
	m.Province = strings.TrimSpace(req.Province)
	m.ZipCode = strings.TrimSpace(req.ZipCode)
}
