package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taller-service/internal/model"
)

const snapshotBatchSize = 200

// VehicleRepository keeps the last roster fetched from the spreadsheet.
type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// ReplaceAll swaps the stored snapshot for the given roster, keeping its
// order.
func (r *VehicleRepository) ReplaceAll(ctx context.Context, vehicles []model.Vehicle, syncedAt time.Time) error {
	rows := make([]model.Vehicle, len(vehicles))
	for i := range vehicles {
		rows[i] = vehicles[i]
		rows[i].Seq = i
		rows[i].SyncedAt = syncedAt
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Vehicle{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, snapshotBatchSize).Error
	})
}

func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) GetByRI(ctx context.Context, ri string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).Where("ri = ?", ri).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).Count(&n).Error
	return n, err
}
