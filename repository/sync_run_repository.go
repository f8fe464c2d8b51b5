package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zirdl/bunubon/models"
	"gorm.io/gorm"
)

// SyncRunRepository stores the history of sync confirms.
type SyncRunRepository interface {
	Create(ctx context.Context, run *models.SyncRun) error
	List(ctx context.Context, page, limit int) ([]models.SyncRun, int64, error)
}

// GormSyncRunRepository implements SyncRunRepository using GORM.
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository.
func NewGormSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create persists run, serialising its row errors into the jsonb column.
func (r *GormSyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return err
	}
	run.ErrorsJSON = string(b)
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *GormSyncRunRepository) List(ctx context.Context, page, limit int) ([]models.SyncRun, int64, error) {
	var runs []models.SyncRun
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SyncRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).Limit(limit).
		Order("completed_at DESC").
		Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	for i := range runs {
		if runs[i].ErrorsJSON == "" {
			continue
		}
		if err := json.Unmarshal([]byte(runs[i].ErrorsJSON), &runs[i].Errors); err != nil {
			return nil, 0, fmt.Errorf("decode errors of sync run %s: %w", runs[i].ID, err)
		}
	}
	return runs, total, nil
}
