package repository

import (
	"context"

	"github.com/zirdl/bunubon/models"
	"gorm.io/gorm"
)

// DashboardRepository computes registry aggregates.
type DashboardRepository interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

// GormDashboardRepository implements DashboardRepository using GORM.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository.
func NewGormDashboardRepository(db *gorm.DB) DashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	db := r.db.WithContext(ctx)
	out := &models.DashboardSummary{}

	var totals struct {
		Count int64
		Area  float64
	}
	if err := db.Model(&models.Title{}).
		Select("COUNT(*) AS count, COALESCE(SUM(area), 0) AS area").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	out.TotalTitles = totals.Count
	out.TotalArea = totals.Area

	if err := db.Model(&models.Municipality{}).Count(&out.TotalMunicipalities).Error; err != nil {
		return nil, err
	}

	var err error
	if out.ByStatus, err = r.groupBy(db, "status"); err != nil {
		return nil, err
	}
	if out.ByTitleType, err = r.groupBy(db, "title_type"); err != nil {
		return nil, err
	}

	if err := db.Model(&models.Title{}).
		Select("municipalities.name AS label, COUNT(titles.id) AS count, COALESCE(SUM(titles.area), 0) AS area").
		Joins("JOIN municipalities ON municipalities.id = titles.municipality_id").
		Group("municipalities.name").
		Order("municipalities.name ASC").
		Scan(&out.ByMunicipality).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Title{}).
		Select("LEFT(date_issued, 4) AS label, COUNT(*) AS count, COALESCE(SUM(area), 0) AS area").
		Where("date_issued <> ''").
		Group("LEFT(date_issued, 4)").
		Order("label ASC").
		Scan(&out.ByYear).Error; err != nil {
		return nil, err
	}

	return out, nil
}

func (r *GormDashboardRepository) groupBy(db *gorm.DB, column string) ([]models.LabelCount, error) {
	var rows []models.LabelCount
	err := db.Model(&models.Title{}).
		Select(column + " AS label, COUNT(*) AS count, COALESCE(SUM(area), 0) AS area").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
