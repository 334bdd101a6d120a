package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantops/canopy-backend/pkg/enums"
)

// Strain is immutable reference data describing a cultivar.
type Strain struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string                      `gorm:"column:name;not null"`
	Code           *string                     `gorm:"column:code"`
	Classification *enums.StrainClassification `gorm:"column:classification"`
	Abbreviation   *string                     `gorm:"column:abbreviation"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
