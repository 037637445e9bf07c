package api

import (
	"net/http"
	"strconv"
)

// ListImportLogs handles GET /api/v1/import/logs?page=&pageSize=
func (h *Handlers) ListImportLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		resp, err := h.deps.Services.ImportLogs.List(r.Context(), page, pageSize)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, resp)
	}
}
