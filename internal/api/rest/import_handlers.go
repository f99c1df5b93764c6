package rest

import (
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/importer"
)

// ImportStats handles POST /imports/stats?dry_run=true with a ';' separated sheet as body
func (h *Handler) ImportStats(w http.ResponseWriter, r *http.Request) {
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	reporter := importer.LogReporter{Fields: log.Fields{"request_id": requestID(r)}}
	report, err := h.importer.Run(r.Context(), body, importer.Options{DryRun: dryRun}, reporter)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, importer.ErrInvalidCSV):
			respondError(w, r, http.StatusBadRequest, "Planilha inválida", err)
		case errors.As(err, &tooLarge):
			respondError(w, r, http.StatusRequestEntityTooLarge, "Arquivo muito grande", err)
		default:
			respondError(w, r, http.StatusInternalServerError, "Erro ao importar estatísticas", err)
		}
		return
	}

	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	respondJSON(w, status, report)
}
