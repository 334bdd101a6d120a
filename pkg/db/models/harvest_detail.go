package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HarvestDetail records one strain's harvested weight split into size grades,
// plus the per-grade sale prices used for the revenue figure.
type HarvestDetail struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SummaryID   uuid.UUID       `gorm:"column:summary_id;type:uuid;not null"`
	StrainID    uuid.UUID       `gorm:"column:strain_id;type:uuid;not null"`
	Strain      *Strain         `gorm:"foreignKey:StrainID"`
	BigsLbs     decimal.Decimal `gorm:"column:bigs_lbs;type:numeric(12,2);not null"`
	SmallsLbs   decimal.Decimal `gorm:"column:smalls_lbs;type:numeric(12,2);not null"`
	MicrosLbs   decimal.Decimal `gorm:"column:micros_lbs;type:numeric(12,2);not null"`
	BigsPrice   decimal.Decimal `gorm:"column:bigs_price;type:numeric(12,2);not null"`
	SmallsPrice decimal.Decimal `gorm:"column:smalls_price;type:numeric(12,2);not null"`
	MicrosPrice decimal.Decimal `gorm:"column:micros_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
