package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"gorm.io/gorm"
)

// MunicipalityRepository defines data-access operations for municipalities.
type MunicipalityRepository interface {
	// List returns every municipality ordered by name, then creation time.
	List(ctx context.Context) ([]models.Municipality, error)
	ListWithCounts(ctx context.Context) ([]models.MunicipalityWithCount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Municipality, error)
	Create(ctx context.Context, m *models.Municipality) error
	Update(ctx context.Context, m *models.Municipality) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountTitles(ctx context.Context, id uuid.UUID) (int64, error)
}

// GormMunicipalityRepository implements MunicipalityRepository using GORM.
type GormMunicipalityRepository struct {
	db *gorm.DB
}

// NewGormMunicipalityRepository creates a new GormMunicipalityRepository.
func NewGormMunicipalityRepository(db *gorm.DB) MunicipalityRepository {
	return &GormMunicipalityRepository{db: db}
}

func (r *GormMunicipalityRepository) List(ctx context.Context) ([]models.Municipality, error) {
	var out []models.Municipality
	if err := r.db.WithContext(ctx).
		Order("name ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormMunicipalityRepository) ListWithCounts(ctx context.Context) ([]models.MunicipalityWithCount, error) {
	var out []models.MunicipalityWithCount
	if err := r.db.WithContext(ctx).
		Model(&models.Municipality{}).
		Select("municipalities.*, COUNT(titles.id) AS title_count").
		Joins("LEFT JOIN titles ON titles.municipality_id = municipalities.id AND titles.deleted_at IS NULL").
		Group("municipalities.id").
		Order("municipalities.name ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormMunicipalityRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Municipality, error) {
	var m models.Municipality
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormMunicipalityRepository) Create(ctx context.Context, m *models.Municipality) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *GormMunicipalityRepository) Update(ctx context.Context, m *models.Municipality) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *GormMunicipalityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Municipality{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountTitles counts live titles filed under the municipality.
func (r *GormMunicipalityRepository) CountTitles(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Title{}).
		Where("municipality_id = ?", id).
		Count(&n).Error
	return n, err
}
