package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
)

// BatchGuard reports how many of a room's batches carry a given status.
// Satisfied by the batches repository.
type BatchGuard interface {
	CountForRoomWithStatus(ctx context.Context, roomID uuid.UUID, status enums.BatchStatus) (int64, error)
}

// CreateRoomInput holds a validated room create request.
type CreateRoomInput struct {
	Name          string
	LightCapacity int
	Status        enums.RoomStatus
}

// UpdateRoomInput carries the mutable room fields. Nil means leave unchanged.
type UpdateRoomInput struct {
	Name          *string
	LightCapacity *int
	Status        *enums.RoomStatus
}

// Service exposes room management to the HTTP layer.
type Service interface {
	CreateRoom(ctx context.Context, input CreateRoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, input UpdateRoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	batches BatchGuard
}

// NewService builds a room service with the batch guard used on delete.
func NewService(repo Repository, batches BatchGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rooms repository required")
	}
	if batches == nil {
		return nil, fmt.Errorf("batch guard required")
	}
	return &service{repo: repo, batches: batches}, nil
}

func (s *service) CreateRoom(ctx context.Context, input CreateRoomInput) (*models.Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room name required")
	}
	if input.LightCapacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "light capacity cannot be negative")
	}
	status := input.Status
	if status == "" {
		status = enums.RoomStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room status")
	}

	room := &models.Room{
		Name:          name,
		LightCapacity: input.LightCapacity,
		Status:        status,
	}
	created, err := s.repo.Create(ctx, room)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create room")
	}
	return created, nil
}

func (s *service) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room id required")
	}
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
	}
	return room, nil
}

func (s *service) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rooms")
	}
	return rooms, nil
}

func (s *service) UpdateRoom(ctx context.Context, id uuid.UUID, input UpdateRoomInput) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "room name cannot be blank")
		}
		room.Name = name
	}
	if input.LightCapacity != nil {
		if *input.LightCapacity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "light capacity cannot be negative")
		}
		room.LightCapacity = *input.LightCapacity
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid room status")
		}
		room.Status = *input.Status
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update room")
	}
	return room, nil
}

func (s *service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "room id required")
	}

	active, err := s.batches.CountForRoomWithStatus(ctx, id, enums.BatchStatusActive)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check room batches")
	}
	if active > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "room has active batches").
			WithDetails(map[string]any{"active_batches": active})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete room")
	}
	return nil
}
