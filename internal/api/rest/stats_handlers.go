package rest

import (
	"errors"
	"net/http"

	"github.com/scoremvp/scoremvp/internal/service"
	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// IdempotencyHeader lets clients retry a stat POST without duplicating it
const IdempotencyHeader = "Idempotency-Key"

const (
	msgSummaryFailed = "Erro ao buscar estatísticas do jogo"
	msgLinesFailed   = "Erro ao buscar estatísticas das jogadoras"
	msgRecordFailed  = "Erro ao adicionar estatísticas"
)

// GetGameSummary handles GET /jogos/{gameId}/stats
func (h *Handler) GetGameSummary(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	summary, err := h.statsService.ComputeGameSummary(r.Context(), gameID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, msgSummaryFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetPlayerLines handles GET /jogos/{gameId}/stats/jogadoras
func (h *Handler) GetPlayerLines(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	quarter, err := queryInt(r, "quarto")
	if err != nil || quarter > stats.NumQuarters {
		respondError(w, r, http.StatusBadRequest, "Quarto inválido", err)
		return
	}
	playerID, err := queryInt(r, "jogadora_id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "ID da jogadora inválido", err)
		return
	}

	lines, err := h.statsService.ListPlayerStats(r.Context(), gameID, store.StatFilter{
		Quarter:  quarter,
		PlayerID: playerID,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, msgLinesFailed, err)
		return
	}
	if lines == nil {
		lines = []*store.StatEntryWithPlayer{}
	}

	respondJSON(w, http.StatusOK, lines)
}

// RecordStats handles POST /jogos/{gameId}/stats
func (h *Handler) RecordStats(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	var payload stats.Payload
	if err := decodeJSON(r, &payload); err != nil {
		if errors.Is(err, stats.ErrInvalidNumber) {
			respondError(w, r, http.StatusBadRequest, validationMessage(err), err)
			return
		}
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	record, replayed, err := h.statsService.RecordPlayerStatsOnce(r.Context(), gameID, r.Header.Get(IdempotencyHeader), payload.ToEntry())
	switch {
	case stats.IsValidationError(err):
		respondError(w, r, http.StatusBadRequest, validationMessage(err), err)
		return
	case errors.Is(err, store.ErrInvalidReference):
		respondError(w, r, http.StatusBadRequest, "Jogo ou jogadora inexistente", err)
		return
	case errors.Is(err, service.ErrRequestInFlight):
		respondError(w, r, http.StatusConflict, "Requisição em andamento, tente novamente", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, msgRecordFailed, err)
		return
	}

	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	respondJSON(w, http.StatusCreated, record)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, stats.ErrInvalidQuarter):
		return "Quarto deve estar entre 1 e 4"
	case errors.Is(err, stats.ErrNegativeCounter):
		return "Estatísticas não podem ser negativas"
	case errors.Is(err, stats.ErrMakesExceedAttempts):
		return "Acertos não podem exceder tentativas"
	case errors.Is(err, stats.ErrInvalidNumber):
		return "Estatísticas devem ser números inteiros"
	}
	return "Estatísticas inválidas"
}
