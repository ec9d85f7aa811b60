package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/middleware"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// StudentHandler serves the logged-in student's own ledger. The class and
// username always come from the session, never from the request.
type StudentHandler struct {
	ledger ports.LedgerService
}

func NewStudentHandler(ledger ports.LedgerService) *StudentHandler {
	return &StudentHandler{ledger: ledger}
}

type DepositRequest struct {
	Amount Amount `json:"amount"`
}

type PurchaseRequest struct {
	Item string `json:"item"`
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	dash, err := h.ledger.Dashboard(r.Context(), id.Class, id.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *StudentHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	var req DepositRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.ledger.DepositToSavings(r.Context(), id.Class, id.Username, domain.ParseAmount(string(req.Amount)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *StudentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	var req PurchaseRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.ledger.Purchase(r.Context(), id.Class, id.Username, req.Item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
