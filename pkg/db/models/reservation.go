package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/enums"
)

// Reservation is a ledger row for a guest booking or a host block. Exactly one
// of ResourceID and ConfigurationID is set.
type Reservation struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Kind            enums.ReservationKind   `gorm:"column:kind;type:text;not null"`
	GuestID         *uuid.UUID              `gorm:"column:guest_id;type:uuid;index"`
	GuestEmail      *string                 `gorm:"column:guest_email;type:text"`
	GuestName       *string                 `gorm:"column:guest_name;type:text"`
	ResourceID      *uuid.UUID              `gorm:"column:resource_id;type:uuid;index"`
	ConfigurationID *uuid.UUID              `gorm:"column:configuration_id;type:uuid;index"`
	StartDate       time.Time               `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time               `gorm:"column:end_date;type:date;not null"`
	Nights          int                     `gorm:"column:nights;not null"`
	Status          enums.ReservationStatus `gorm:"column:status;type:text;not null;index"`
	TotalPrice      decimal.Decimal         `gorm:"column:total_price;type:numeric(12,2);not null"`
	DecisionNote    *string                 `gorm:"column:decision_note;type:text"`
	CreatedBy       *uuid.UUID              `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
	ConfirmedAt     *time.Time              `gorm:"column:confirmed_at"`
	RejectedAt      *time.Time              `gorm:"column:rejected_at"`
	CancelledAt     *time.Time              `gorm:"column:cancelled_at"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OccupancyLock marks a resource as taken for the half-open range
// [StartDate, EndDate) by a confirmed reservation.
type OccupancyLock struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ReservationID uuid.UUID `gorm:"column:reservation_id;type:uuid;not null;index"`
	ResourceID    uuid.UUID `gorm:"column:resource_id;type:uuid;not null;index"`
	StartDate     time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time `gorm:"column:end_date;type:date;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (l *OccupancyLock) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
