package api

import (
	"encoding/json"
	"net/http"

	"infinite-experiment/quartermaster/internal/auth"
	"infinite-experiment/quartermaster/internal/constants"
	"infinite-experiment/quartermaster/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ValidateImport handles POST /api/v1/import/{entity}/validate
// Read-only preview of a document; never writes, never audited.
func (h *Handlers) ValidateImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := constants.EntityKind(chi.URLParam(r, "entity"))
		if !entity.Valid() {
			respondWithError(w, http.StatusNotFound, constants.MsgUnknownEntity)
			return
		}

		var req dtos.ValidateImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := h.deps.Services.Import.Validate(r.Context(), entity, req)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// CommitImport handles POST /api/v1/import/{entity}/commit
// Applies the document as one atomic batch under the commit lock.
func (h *Handlers) CommitImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := constants.EntityKind(chi.URLParam(r, "entity"))
		if !entity.Valid() {
			respondWithError(w, http.StatusNotFound, constants.MsgUnknownEntity)
			return
		}

		claims := auth.GetActorClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgMissingActor)
			return
		}

		var req dtos.CommitImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !req.Source.Valid() {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidImportSrc)
			return
		}

		resp, err := h.deps.Services.Import.Commit(r.Context(), entity, req, claims.ActorID())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if !resp.Success {
			respondWithSuccess(w, http.StatusUnprocessableEntity, resp)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
