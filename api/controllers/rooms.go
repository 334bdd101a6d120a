package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantops/canopy-backend/api/responses"
	"github.com/verdantops/canopy-backend/api/validators"
	"github.com/verdantops/canopy-backend/internal/rooms"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

type createRoomRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	LightCapacity int    `json:"light_capacity" validate:"gte=0"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

type updateRoomRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=120"`
	LightCapacity *int    `json:"light_capacity" validate:"omitempty,gte=0"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

// CreateRoom registers a grow room.
func CreateRoom(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}

		var req createRoomRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		room, err := svc.CreateRoom(r.Context(), rooms.CreateRoomInput{
			Name:          req.Name,
			LightCapacity: req.LightCapacity,
			Status:        enums.RoomStatus(req.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, room)
	}
}

// ListRooms returns every room, name-ordered.
func ListRooms(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}

		list, err := svc.ListRooms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetRoom returns one room by id.
func GetRoom(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "roomId"), "roomId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		room, err := svc.GetRoom(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, room)
	}
}

// UpdateRoom applies a partial update.
func UpdateRoom(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "roomId"), "roomId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRoomRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rooms.UpdateRoomInput{
			Name:          req.Name,
			LightCapacity: req.LightCapacity,
		}
		if req.Status != nil {
			status := enums.RoomStatus(*req.Status)
			input.Status = &status
		}

		room, err := svc.UpdateRoom(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, room)
	}
}

// DeleteRoom removes a room unless it still hosts active batches.
func DeleteRoom(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "roomId"), "roomId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteRoom(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
