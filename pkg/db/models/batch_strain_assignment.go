package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStrainAssignment allocates a share of a batch's room to one strain.
type BatchStrainAssignment struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID        uuid.UUID       `gorm:"column:batch_id;type:uuid;not null"`
	StrainID       uuid.UUID       `gorm:"column:strain_id;type:uuid;not null"`
	Strain         *Strain         `gorm:"foreignKey:StrainID"`
	LightsAssigned int             `gorm:"column:lights_assigned;not null;default:0"`
	Percentage     decimal.Decimal `gorm:"column:percentage;type:numeric(5,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
