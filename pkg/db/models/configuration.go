package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Configuration is a sellable stay option mapped onto one or more resources.
type Configuration struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Slug          string          `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Label         string          `gorm:"column:label;type:text;not null"`
	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:numeric(12,2);not null"`
	Active        bool            `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (c *Configuration) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ConfigurationResource maps a configuration to a resource it occupies.
type ConfigurationResource struct {
	ConfigurationID uuid.UUID `gorm:"column:configuration_id;type:uuid;primaryKey"`
	ResourceID      uuid.UUID `gorm:"column:resource_id;type:uuid;primaryKey"`
}
