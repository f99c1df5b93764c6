package rest

import (
	"net/http"

	"github.com/scoremvp/scoremvp/internal/store"
)

// GetDashboardOverview handles GET /dashboard/overview?from=&to=
func (h *Handler) GetDashboardOverview(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Data inválida (use AAAA-MM-DD)", err)
		return
	}

	overview, err := h.dashboardService.GetOverview(r.Context(), store.GameFilter{From: from, To: to})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Erro ao carregar dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// GetPlayerRanking handles GET /dashboard/players?from=&to=
func (h *Handler) GetPlayerRanking(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Data inválida (use AAAA-MM-DD)", err)
		return
	}

	ranking, err := h.dashboardService.PlayerRanking(r.Context(), store.GameFilter{From: from, To: to})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Erro ao carregar ranking de jogadoras", err)
		return
	}

	respondJSON(w, http.StatusOK, ranking)
}

// GetGameBreakdown handles GET /dashboard/games?from=&to=
func (h *Handler) GetGameBreakdown(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Data inválida (use AAAA-MM-DD)", err)
		return
	}

	lines, err := h.dashboardService.GameBreakdown(r.Context(), store.GameFilter{From: from, To: to})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Erro ao carregar jogos", err)
		return
	}

	respondJSON(w, http.StatusOK, lines)
}
