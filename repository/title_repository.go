package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"gorm.io/gorm"
)

// sortColumns whitelists the columns a listing may be ordered by.
var sortColumns = map[string]string{
	"serial_number": "serial_number",
	"date_issued":   "date_issued",
	"created_at":    "created_at",
	"area":          "area",
}

// TitleRepository defines data-access operations for land titles.
type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Title, error)
	FindBySerial(ctx context.Context, serial string) (*models.Title, error)
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page of titles matching filter plus the total match count.
	List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, error)
	// ListAll returns every title matching filter, ignoring pagination.
	ListAll(ctx context.Context, filter models.TitleFilter) ([]models.Title, error)
}

// GormTitleRepository implements TitleRepository using GORM.
type GormTitleRepository struct {
	db *gorm.DB
}

// NewGormTitleRepository creates a new GormTitleRepository.
func NewGormTitleRepository(db *gorm.DB) TitleRepository {
	return &GormTitleRepository{db: db}
}

func (r *GormTitleRepository) Create(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Municipality").Create(title).Error
}

func (r *GormTitleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Preload("Municipality").
		First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// FindBySerial matches the serial number exactly.
func (r *GormTitleRepository) FindBySerial(ctx context.Context, serial string) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTitleRepository) Update(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Municipality").Save(title).Error
}

func (r *GormTitleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Title{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTitleRepository) List(ctx context.Context, filter models.TitleFilter) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	query := r.filtered(ctx, filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Municipality").
		Order(orderClause(filter)).
		Offset(offset).Limit(filter.Limit).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *GormTitleRepository) ListAll(ctx context.Context, filter models.TitleFilter) ([]models.Title, error) {
	var titles []models.Title
	if err := r.filtered(ctx, filter).
		Preload("Municipality").
		Order(orderClause(filter)).
		Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *GormTitleRepository) filtered(ctx context.Context, filter models.TitleFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.MunicipalityID != nil {
		query = query.Where("municipality_id = ?", *filter.MunicipalityID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TitleType != "" {
		query = query.Where("title_type = ?", filter.TitleType)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + q + "%"
		query = query.Where("serial_number ILIKE ? OR beneficiary_name ILIKE ? OR lot_number ILIKE ?", like, like, like)
	}
	return query
}

func orderClause(filter models.TitleFilter) string {
	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = "serial_number"
	}
	if filter.SortDesc {
		return col + " DESC"
	}
	return col + " ASC"
}
