package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRun records one refresh of the local snapshot from the spreadsheet.
type SyncRun struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StartedAt    time.Time `gorm:"not null;index" json:"started_at"`
	FinishedAt   time.Time `gorm:"not null" json:"finished_at"`
	VehicleCount int       `gorm:"not null;default:0" json:"vehicle_count"`
	Error        string    `gorm:"column:error_message;type:text" json:"error,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *SyncRun) Succeeded() bool {
	return r.Error == ""
}
