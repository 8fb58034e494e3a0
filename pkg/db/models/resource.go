package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Resource is a bookable physical space. A resource is either a parent with
// children, a leaf under a parent, or standalone.
type Resource struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;type:text;not null"`
	Slug        string          `gorm:"column:slug;type:text;not null;uniqueIndex"`
	NightlyRate decimal.Decimal `gorm:"column:nightly_rate;type:numeric(12,2);not null"`
	ParentID    *uuid.UUID      `gorm:"column:parent_id;type:uuid;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Resource) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
