package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantops/canopy-backend/api/responses"
	"github.com/verdantops/canopy-backend/api/validators"
	"github.com/verdantops/canopy-backend/internal/strains"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

type createStrainRequest struct {
	Name           string  `json:"name" validate:"required,max=120"`
	Code           *string `json:"code" validate:"omitempty,max=32"`
	Classification *string `json:"classification" validate:"omitempty,oneof=sativa indica hybrid"`
	Abbreviation   *string `json:"abbreviation" validate:"omitempty,max=16"`
}

// CreateStrain registers a cultivar.
func CreateStrain(svc strains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "strains service unavailable"))
			return
		}

		var req createStrainRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := strains.CreateStrainInput{
			Name:         req.Name,
			Code:         req.Code,
			Abbreviation: req.Abbreviation,
		}
		if req.Classification != nil {
			classification := enums.StrainClassification(*req.Classification)
			input.Classification = &classification
		}

		strain, err := svc.CreateStrain(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, strain)
	}
}

// ListStrains returns every strain, name-ordered.
func ListStrains(svc strains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "strains service unavailable"))
			return
		}

		list, err := svc.ListStrains(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetStrain returns one strain by id.
func GetStrain(svc strains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "strains service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "strainId"), "strainId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		strain, err := svc.GetStrain(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, strain)
	}
}

// DeleteStrain removes a strain unless batches still reference it.
func DeleteStrain(svc strains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "strains service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "strainId"), "strainId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteStrain(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
