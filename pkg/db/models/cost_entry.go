package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantops/canopy-backend/pkg/enums"
)

// CostEntry is a dated expense, optionally attributed to a room or batch.
type CostEntry struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EntryDate time.Time          `gorm:"column:entry_date;type:date;not null"`
	Category  enums.CostCategory `gorm:"column:category;not null"`
	RoomID    *uuid.UUID         `gorm:"column:room_id;type:uuid"`
	BatchID   *uuid.UUID         `gorm:"column:batch_id;type:uuid"`
	Amount    decimal.Decimal    `gorm:"column:amount;type:numeric(14,2);not null"`
	Note      *string            `gorm:"column:note"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
