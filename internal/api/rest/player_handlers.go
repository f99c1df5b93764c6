package rest

import (
	"errors"
	"net/http"

	"github.com/scoremvp/scoremvp/internal/service"
	"github.com/scoremvp/scoremvp/internal/store"
)

// maxUploadBytes caps roster and CSV uploads
const maxUploadBytes = 4 << 20

// ListPlayers handles GET /players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Erro ao buscar jogadoras", err)
		return
	}
	if players == nil {
		players = []*store.Player{}
	}

	respondJSON(w, http.StatusOK, players)
}

// CreatePlayer handles POST /players
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player store.Player
	if err := decodeJSON(r, &player); err != nil {
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}
	player.ID = 0

	if err := h.playerService.CreatePlayer(r.Context(), &player); err != nil {
		h.playerError(w, r, err, "Erro ao criar jogadora")
		return
	}

	respondJSON(w, http.StatusCreated, player)
}

// GetPlayer handles GET /players/{playerId}
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID da jogadora inválido", nil)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		h.playerError(w, r, err, "Erro ao buscar jogadora")
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// UpdatePlayer handles PUT /players/{playerId}
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID da jogadora inválido", nil)
		return
	}

	var update service.PlayerUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), playerID, update)
	if err != nil {
		h.playerError(w, r, err, "Erro ao atualizar jogadora")
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// DeletePlayer handles DELETE /players/{playerId}
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID da jogadora inválido", nil)
		return
	}

	if err := h.playerService.DeletePlayer(r.Context(), playerID); err != nil {
		h.playerError(w, r, err, "Erro ao remover jogadora")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportRoster handles POST /players/import with an HTML page or fragment as body
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	result, err := h.playerService.ImportRoster(r.Context(), body)
	if err != nil {
		h.playerError(w, r, err, "Erro ao importar elenco")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) playerError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var tooLarge *http.MaxBytesError
	switch {
	case isNotFound(err):
		respondError(w, r, http.StatusNotFound, "Jogadora não encontrada", err)
	case errors.Is(err, service.ErrInvalidPlayer):
		respondError(w, r, http.StatusBadRequest, "Dados da jogadora inválidos", err)
	case errors.As(err, &tooLarge):
		respondError(w, r, http.StatusRequestEntityTooLarge, "Arquivo muito grande", err)
	default:
		respondError(w, r, http.StatusInternalServerError, fallback, err)
	}
}
