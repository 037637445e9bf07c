package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/models/dtos"
	gormModels "infinite-experiment/quartermaster/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

// ListTypeMappings handles GET /api/v1/admin/type-mappings
func (h *Handlers) ListTypeMappings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mappings, err := h.deps.Repo.TypeMapping.GetAll(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp := make([]dtos.TypeMappingResponse, 0, len(mappings))
		for _, m := range mappings {
			resp = append(resp, toMappingResponse(m))
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CreateTypeMapping handles POST /api/v1/admin/type-mappings
// The normalizer cache is invalidated before the response is written, so the
// next Normalize call observes the new rule.
func (h *Handlers) CreateTypeMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TypeMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Pattern) == "" || strings.TrimSpace(req.CanonicalType) == "" {
			respondWithError(w, http.StatusBadRequest, "pattern and canonicalType are required")
			return
		}

		mapping := gormModels.AircraftTypeMapping{
			Pattern:       strings.TrimSpace(req.Pattern),
			CanonicalType: strings.TrimSpace(req.CanonicalType),
			Priority:      req.Priority,
			IsActive:      true,
		}
		if req.IsActive != nil {
			mapping.IsActive = *req.IsActive
		}

		if err := h.deps.Repo.TypeMapping.Create(r.Context(), &mapping); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		h.deps.Services.Normalizer.InvalidateCache()

		resp := toMappingResponse(mapping)
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// UpdateTypeMapping handles PUT /api/v1/admin/type-mappings/{id}
func (h *Handlers) UpdateTypeMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		existing, err := h.deps.Repo.TypeMapping.GetByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if existing == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgMappingNotFound)
			return
		}

		var req dtos.TypeMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if p := strings.TrimSpace(req.Pattern); p != "" {
			existing.Pattern = p
		}
		if c := strings.TrimSpace(req.CanonicalType); c != "" {
			existing.CanonicalType = c
		}
		if req.Priority != 0 {
			existing.Priority = req.Priority
		}
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}

		if err := h.deps.Repo.TypeMapping.Update(r.Context(), existing); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		h.deps.Services.Normalizer.InvalidateCache()

		resp := toMappingResponse(*existing)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// DeleteTypeMapping handles DELETE /api/v1/admin/type-mappings/{id}
func (h *Handlers) DeleteTypeMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		existing, err := h.deps.Repo.TypeMapping.GetByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if existing == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgMappingNotFound)
			return
		}

		if err := h.deps.Repo.TypeMapping.Delete(r.Context(), id); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		h.deps.Services.Normalizer.InvalidateCache()

		resp := map[string]string{"deleted": id}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func toMappingResponse(m gormModels.AircraftTypeMapping) dtos.TypeMappingResponse {
	return dtos.TypeMappingResponse{
		ID:            m.ID,
		Pattern:       m.Pattern,
		CanonicalType: m.CanonicalType,
		Priority:      m.Priority,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
