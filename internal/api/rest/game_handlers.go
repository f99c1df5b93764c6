package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/scoremvp/scoremvp/internal/service"
	"github.com/scoremvp/scoremvp/internal/store"
)

const dateLayout = "2006-01-02"

// flexibleDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates
type flexibleDate struct {
	time.Time
}

func (d *flexibleDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return errors.New("date must be YYYY-MM-DD or RFC 3339")
}

type gameRequest struct {
	Opponent  string           `json:"opponent"`
	Date      flexibleDate     `json:"date"`
	Time      string           `json:"time"`
	Location  string           `json:"location"`
	Category  string           `json:"category"`
	Status    store.GameStatus `json:"status"`
	HomeScore int              `json:"home_score"`
	AwayScore int              `json:"away_score"`
}

type gameUpdateRequest struct {
	Opponent  *string           `json:"opponent"`
	Date      *flexibleDate     `json:"date"`
	Time      *string           `json:"time"`
	Location  *string           `json:"location"`
	Category  *string           `json:"category"`
	HomeScore *int              `json:"home_score"`
	AwayScore *int              `json:"away_score"`
	Status    *store.GameStatus `json:"status"`
}

func (u gameUpdateRequest) toUpdate() service.GameUpdate {
	update := service.GameUpdate{
		Opponent:  u.Opponent,
		Time:      u.Time,
		Location:  u.Location,
		Category:  u.Category,
		HomeScore: u.HomeScore,
		AwayScore: u.AwayScore,
		Status:    u.Status,
	}
	if u.Date != nil {
		update.Date = &u.Date.Time
	}
	return update
}

// ListGames handles GET /games?status=&from=&to=&limit=&offset=
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Data inválida (use AAAA-MM-DD)", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Parâmetro limit inválido", err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Parâmetro offset inválido", err)
		return
	}

	games, err := h.gameService.ListGames(r.Context(), store.GameFilter{
		Status: store.GameStatus(r.URL.Query().Get("status")),
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidGame) {
			respondError(w, r, http.StatusBadRequest, "Filtro de jogos inválido", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Erro ao buscar jogos", err)
		return
	}
	if games == nil {
		games = []*store.Game{}
	}

	respondJSON(w, http.StatusOK, games)
}

// CreateGame handles POST /games
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	game := &store.Game{
		Opponent:  req.Opponent,
		Date:      req.Date.Time,
		Time:      req.Time,
		Location:  req.Location,
		Category:  req.Category,
		Status:    req.Status,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	}
	if err := h.gameService.CreateGame(r.Context(), game); err != nil {
		if errors.Is(err, service.ErrInvalidGame) {
			respondError(w, r, http.StatusBadRequest, "Dados do jogo inválidos", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Erro ao criar jogo", err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// GetGame handles GET /games/{gameId}
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		h.gameError(w, r, err, "Erro ao buscar jogo")
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// UpdateGame handles PUT /games/{gameId}
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	var req gameUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), gameID, req.toUpdate())
	if err != nil {
		h.gameError(w, r, err, "Erro ao atualizar jogo")
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// ChangeGameStatus handles PATCH /games/{gameId}/status
func (h *Handler) ChangeGameStatus(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	var req struct {
		Status store.GameStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Corpo da requisição inválido", err)
		return
	}

	game, err := h.gameService.ChangeStatus(r.Context(), gameID, req.Status)
	if err != nil {
		h.gameError(w, r, err, "Erro ao atualizar status do jogo")
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /games/{gameId}
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "ID do jogo inválido", nil)
		return
	}

	if err := h.gameService.DeleteGame(r.Context(), gameID); err != nil {
		h.gameError(w, r, err, "Erro ao remover jogo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// gameError maps game service errors to responses; fallback is the 500 message
func (h *Handler) gameError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case isNotFound(err):
		respondError(w, r, http.StatusNotFound, "Jogo não encontrado", err)
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(w, r, http.StatusBadRequest, "Transição de status inválida", err)
	case errors.Is(err, service.ErrInvalidGame):
		respondError(w, r, http.StatusBadRequest, "Dados do jogo inválidos", err)
	default:
		respondError(w, r, http.StatusInternalServerError, fallback, err)
	}
}
