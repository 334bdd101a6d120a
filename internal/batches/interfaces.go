package batches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
)

// Repository defines persistence operations for batch tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, batch *models.Batch) (*models.Batch, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	List(ctx context.Context, query listQuery) ([]models.Batch, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BatchStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountCodesLike(ctx context.Context, roomID *uuid.UUID, pattern string) (int64, error)
	CountForRoomWithStatus(ctx context.Context, roomID uuid.UUID, status enums.BatchStatus) (int64, error)
}

// RoomSource resolves the room a batch is being placed in. Satisfied by the
// rooms repository.
type RoomSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

// TxRunner executes a function inside a database transaction. Satisfied by
// db.Client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes batch lifecycle operations to the HTTP layer.
type Service interface {
	CreateBatch(ctx context.Context, input CreateBatchInput) (*BatchView, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*BatchView, error)
	ListBatches(ctx context.Context, params ListParams) (*ListResult, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, target enums.BatchStatus) (*BatchView, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error
}
