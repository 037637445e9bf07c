package api

import (
	"fmt"
	"net/http"

	"infinite-experiment/quartermaster/internal/constants"

	"github.com/go-chi/chi/v5"
)

// ExportMasterData handles GET /api/v1/export/{entity}
// Renders the current active table as CSV with the import column set, so
// the download re-imports as pure no-ops.
func (h *Handlers) ExportMasterData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := constants.EntityKind(chi.URLParam(r, "entity"))
		if !entity.Valid() {
			respondWithError(w, http.StatusNotFound, constants.MsgUnknownEntity)
			return
		}

		csvText, err := h.deps.Services.Export.ExportCSV(r.Context(), entity)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", entity))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(csvText))
	}
}
