package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantops/canopy-backend/pkg/enums"
)

// Batch is one cultivation run occupying a room for a period, optionally split
// across multiple strains via its assignments.
type Batch struct {
	ID                  uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID              *uuid.UUID              `gorm:"column:room_id;type:uuid"`
	Room                *Room                   `gorm:"foreignKey:RoomID;constraint:OnDelete:SET NULL"`
	PrimaryStrainID     *uuid.UUID              `gorm:"column:primary_strain_id;type:uuid"`
	Code                string                  `gorm:"column:code;not null"`
	StartDate           time.Time               `gorm:"column:start_date;type:date;not null"`
	ExpectedHarvestDate *time.Time              `gorm:"column:expected_harvest_date;type:date"`
	Status              enums.BatchStatus       `gorm:"column:status;not null;default:'planned'"`
	Assignments         []BatchStrainAssignment `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	Harvest             *HarvestSummary         `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalLights sums the lights assigned across the batch's strain assignments.
func (b *Batch) TotalLights() int {
	total := 0
	for _, a := range b.Assignments {
		total += a.LightsAssigned
	}
	return total
}
