package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantops/canopy-backend/api/responses"
	"github.com/verdantops/canopy-backend/api/validators"
	"github.com/verdantops/canopy-backend/internal/harvests"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

type strainHarvestRequest struct {
	StrainID    string `json:"strain_id" validate:"required,uuid4"`
	BigsLbs     string `json:"bigs_lbs" validate:"required"`
	SmallsLbs   string `json:"smalls_lbs" validate:"required"`
	MicrosLbs   string `json:"micros_lbs" validate:"required"`
	BigsPrice   string `json:"bigs_price" validate:"required"`
	SmallsPrice string `json:"smalls_price" validate:"required"`
	MicrosPrice string `json:"micros_price" validate:"required"`
}

type recordHarvestRequest struct {
	HarvestDate string                 `json:"harvest_date" validate:"required"`
	Strains     []strainHarvestRequest `json:"strains" validate:"required,min=1,dive"`
}

func (req *recordHarvestRequest) toInput() (harvests.RecordHarvestInput, error) {
	input := harvests.RecordHarvestInput{}

	harvestDate, err := validators.ParseDate(req.HarvestDate, "harvest_date")
	if err != nil {
		return input, err
	}
	input.HarvestDate = harvestDate

	for _, s := range req.Strains {
		strainID, err := uuid.Parse(s.StrainID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid strain id")
		}
		sh := harvests.StrainHarvest{StrainID: strainID}
		fields := []struct {
			name  string
			raw   string
			value *decimal.Decimal
		}{
			{"bigs_lbs", s.BigsLbs, &sh.BigsLbs},
			{"smalls_lbs", s.SmallsLbs, &sh.SmallsLbs},
			{"micros_lbs", s.MicrosLbs, &sh.MicrosLbs},
			{"bigs_price", s.BigsPrice, &sh.BigsPrice},
			{"smalls_price", s.SmallsPrice, &sh.SmallsPrice},
			{"micros_price", s.MicrosPrice, &sh.MicrosPrice},
		}
		for _, f := range fields {
			parsed, err := decimal.NewFromString(strings.TrimSpace(f.raw))
			if err != nil {
				return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decimal value").
					WithDetails(map[string]any{"field": f.name})
			}
			*f.value = parsed
		}
		input.Strains = append(input.Strains, sh)
	}

	return input, nil
}

// RecordHarvest saves a batch's harvest outcome, replacing any prior save, and
// flips the batch to harvested.
func RecordHarvest(svc harvests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "harvests service unavailable"))
			return
		}

		batchID, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req recordHarvestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RecordHarvest(r.Context(), batchID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetHarvest returns the saved harvest summary and details for a batch.
func GetHarvest(svc harvests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "harvests service unavailable"))
			return
		}

		batchID, err := validators.ParsePathUUID(chi.URLParam(r, "batchId"), "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetHarvest(r.Context(), batchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
