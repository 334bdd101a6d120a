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
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

type batchAssignmentRequest struct {
	StrainID   string `json:"strain_id" validate:"required,uuid4"`
	Lights     int    `json:"lights" validate:"gte=0"`
	Percentage string `json:"percentage" validate:"required"`
}

type createBatchRequest struct {
	RoomID              *string                  `json:"room_id" validate:"omitempty,uuid4"`
	Code                string                   `json:"code" validate:"omitempty,max=64"`
	StartDate           string                   `json:"start_date" validate:"required"`
	ExpectedHarvestDate *string                  `json:"expected_harvest_date"`
	Status              string                   `json:"status" validate:"omitempty,oneof=planned active"`
	Assignments         []batchAssignmentRequest `json:"assignments" validate:"required,min=1,dive"`
}

type updateBatchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req *createBatchRequest) toInput() (batches.CreateBatchInput, error) {
	input := batches.CreateBatchInput{
		Code:   req.Code,
		Status: enums.BatchStatus(req.Status),
	}

	if req.RoomID != nil {
		roomID, err := uuid.Parse(*req.RoomID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid room id")
		}
		input.RoomID = &roomID
	}

	startDate, err := validators.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return input, err
	}
	input.StartDate = startDate

	if req.ExpectedHarvestDate != nil {
		expected, err := validators.ParseOptionalDate(*req.ExpectedHarvestDate, "expected_harvest_date")
		if err != nil {
			return input, err
		}
		input.ExpectedHarvestDate = expected
	}

	for _, a := range req.Assignments {
		strainID, err := uuid.Parse(a.StrainID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid strain id")
		}
		percentage, err := decimal.NewFromString(strings.TrimSpace(a.Percentage))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid percentage")
		}
		input.Assignments = append(input.Assignments, batches.ProposedAssignment{
			StrainID:       strainID,
			LightsAssigned: a.Lights,
			Percentage:     percentage,
		})
	}

	return input, nil
}

// CreateBatch starts a cultivation run with its strain allocation.
func CreateBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		var req createBatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateBatch(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListBatches returns a status-filterable, cursor-paginated batch listing.
func ListBatches(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		params := batches.ListParams{}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit

		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			params.Cursor = cursor
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseBatchStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		result, err := svc.ListBatches(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetBatch returns one batch with its assignments and derived fields.
func GetBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetBatch(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateBatchStatus moves a batch between lifecycle states. The harvested
// state is reserved for the harvest recording flow.
func UpdateBatchStatus(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateBatchStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.TransitionStatus(r.Context(), id, enums.BatchStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeleteBatch removes a batch and its allocation and harvest rows.
func DeleteBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBatch(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
