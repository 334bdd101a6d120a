package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantops/canopy-backend/pkg/enums"
)

// Room represents a grow room with a fixed lighting capacity.
type Room struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	LightCapacity int              `gorm:"column:light_capacity;not null;default:0"`
	Status        enums.RoomStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
