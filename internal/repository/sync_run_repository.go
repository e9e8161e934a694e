package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taller-service/internal/model"
)

type SyncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, run *model.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Latest returns the most recent run, or gorm.ErrRecordNotFound.
func (r *SyncRunRepository) Latest(ctx context.Context) (*model.SyncRun, error) {
	var run model.SyncRun
	err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &run, nil
}

// LatestSuccessful returns the most recent run that refreshed the snapshot.
func (r *SyncRunRepository) LatestSuccessful(ctx context.Context) (*model.SyncRun, error) {
	var run model.SyncRun
	err := r.db.WithContext(ctx).
		Where("error_message = ? OR error_message IS NULL", "").
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
