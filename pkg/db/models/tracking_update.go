package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
)

// TrackingUpdate is an append-only timeline entry on an order. Rows are
// never edited or removed once written.
type TrackingUpdate struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index:tracking_updates_order_id_idx"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Timestamp   time.Time         `gorm:"column:timestamp;not null"`
	Description string            `gorm:"column:description;not null"`
}

func (t *TrackingUpdate) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
