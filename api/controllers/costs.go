package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantops/canopy-backend/api/responses"
	"github.com/verdantops/canopy-backend/api/validators"
	"github.com/verdantops/canopy-backend/internal/batches"
	"github.com/verdantops/canopy-backend/internal/costs"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

type createCostEntryRequest struct {
	EntryDate string  `json:"entry_date" validate:"required"`
	Category  string  `json:"category" validate:"required,oneof=labor nutrients electricity supplies rent other"`
	RoomID    *string `json:"room_id" validate:"omitempty,uuid4"`
	BatchID   *string `json:"batch_id" validate:"omitempty,uuid4"`
	Amount    string  `json:"amount" validate:"required"`
	Note      *string `json:"note" validate:"omitempty,max=500"`
}

// CreateCostEntry records a dated expense against a room or batch.
func CreateCostEntry(svc costs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "costs service unavailable"))
			return
		}

		var req createCostEntryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryDate, err := validators.ParseDate(req.EntryDate, "entry_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		input := costs.CreateEntryInput{
			EntryDate: entryDate,
			Category:  enums.CostCategory(req.Category),
			Amount:    amount,
			Note:      req.Note,
		}
		if req.RoomID != nil {
			roomID, err := uuid.Parse(*req.RoomID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid room id"))
				return
			}
			input.RoomID = &roomID
		}
		if req.BatchID != nil {
			batchID, err := uuid.Parse(*req.BatchID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid batch id"))
				return
			}
			input.BatchID = &batchID
		}

		entry, err := svc.CreateEntry(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// ListCostEntries returns cost entries filtered by room, batch, or category.
func ListCostEntries(svc costs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "costs service unavailable"))
			return
		}

		filter := costs.ListFilter{}

		roomID, err := validators.ParseQueryUUID(r, "room_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.RoomID = roomID

		batchID, err := validators.ParseQueryUUID(r, "batch_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.BatchID = batchID

		from, err := validators.ParseOptionalDate(r.URL.Query().Get("from"), "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.From = from

		to, err := validators.ParseOptionalDate(r.URL.Query().Get("to"), "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.To = to

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseCostCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter"))
				return
			}
			value := category.String()
			filter.Category = &value
		}

		entries, err := svc.ListEntries(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// DeleteCostEntry removes one expense row.
func DeleteCostEntry(svc costs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "costs service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "costId"), "costId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEntry(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BatchCostToGrow reports the running cost figure for one batch.
func BatchCostToGrow(batchSvc batches.Service, costSvc costs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if batchSvc == nil || costSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "costs service unavailable"))
			return
		}

		batchID, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := batchSvc.GetBatch(r.Context(), batchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Electricity is modeled on the room's full light count, not the
		// batch's assigned share.
		roomLights := 0
		if view.Room != nil {
			roomLights = view.Room.LightCapacity
		}
		cost, err := costSvc.CostToGrow(r.Context(), costs.GrowParams{
			BatchID:   view.ID,
			RoomID:    view.RoomID,
			StartDate: view.StartDate,
			Lights:    roomLights,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cost)
	}
}
