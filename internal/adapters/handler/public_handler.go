package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// PublicHandler serves what every logged-in role may see.
type PublicHandler struct {
	ledger ports.LedgerService
	board  ports.LeaderboardService
}

func NewPublicHandler(ledger ports.LedgerService, board ports.LeaderboardService) *PublicHandler {
	return &PublicHandler{ledger: ledger, board: board}
}

func (h *PublicHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Catalog())
}

func (h *PublicHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
