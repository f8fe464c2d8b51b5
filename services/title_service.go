package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// MaxPageLimit caps the page size of title listings.
const MaxPageLimit = 100

// TitleService defines title record management.
type TitleService interface {
	List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, *ServiceError)
	Get(ctx context.Context, id uuid.UUID) (*models.Title, *ServiceError)
	Create(ctx context.Context, req *models.TitleRequest) (*models.Title, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.TitleRequest) (*models.Title, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type titleServiceImpl struct {
	titles         repository.TitleRepository
	municipalities repository.MunicipalityRepository
	cache          *CacheManager
	logger         *zap.Logger
}

// NewTitleService creates a new TitleService.
func NewTitleService(
	titles repository.TitleRepository,
	municipalities repository.MunicipalityRepository,
	cache *CacheManager,
	logger *zap.Logger,
) TitleService {
	return &titleServiceImpl{titles: titles, municipalities: municipalities, cache: cache, logger: logger}
}

func (s *titleServiceImpl) List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}

	titles, total, err := s.titles.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list titles", zap.Error(err))
		return nil, 0, internal("Failed to list titles")
	}
	return titles, total, nil
}

func (s *titleServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Title, *ServiceError) {
	t, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Title not found")
		}
		s.logger.Error("Failed to load title", zap.Error(err))
		return nil, internal("Failed to load title")
	}
	return t, nil
}

func (s *titleServiceImpl) Create(ctx context.Context, req *models.TitleRequest) (*models.Title, *ServiceError) {
	if svcErr := s.ensureMunicipality(ctx, req.MunicipalityID); svcErr != nil {
		return nil, svcErr
	}

	t := &models.Title{ID: uuid.New()}
	applyTitleRequest(t, req)

	if err := s.titles.Create(ctx, t); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflict("A title with this serial number already exists")
		}
		s.logger.Error("Failed to create title", zap.Error(err))
		return nil, internal("Failed to create title")
	}
	s.cache.Invalidate(ctx)
	s.logger.Info("Title created", zap.String("serial", t.SerialNumber))
	return t, nil
}

func (s *titleServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.TitleRequest) (*models.Title, *ServiceError) {
	t, svcErr := s.Get(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.ensureMunicipality(ctx, req.MunicipalityID); svcErr != nil {
		return nil, svcErr
	}

	applyTitleRequest(t, req)
	t.Municipality = nil

	if err := s.titles.Update(ctx, t); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflict("A title with this serial number already exists")
		}
		s.logger.Error("Failed to update title", zap.Error(err))
		return nil, internal("Failed to update title")
	}
	s.cache.Invalidate(ctx)
	return t, nil
}

func (s *titleServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.titles.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("Title not found")
		}
		s.logger.Error("Failed to delete title", zap.Error(err))
		return internal("Failed to delete title")
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *titleServiceImpl) ensureMunicipality(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, err := s.municipalities.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return badRequest("Municipality does not exist")
		}
		s.logger.Error("Failed to load municipality", zap.Error(err))
		return internal("Failed to validate municipality")
	}
	return nil
}

func applyTitleRequest(t *models.Title, req *models.TitleRequest) {
	t.SerialNumber = strings.TrimSpace(req.SerialNumber)
	t.MunicipalityID = req.MunicipalityID
	t.TitleType = req.TitleType
	t.Subtype = req.Subtype
	t.BeneficiaryName = strings.TrimSpace(req.BeneficiaryName)
	t.LotNumber = req.LotNumber
	t.Area = req.Area
	t.Status = req.Status
	t.DateIssued = req.DateIssued
	t.Notes = req.Notes
}
