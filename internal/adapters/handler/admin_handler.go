package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

type AdminHandler struct {
	directory ports.DirectoryService
	ledger    ports.LedgerService
	orders    ports.OrderService
}

func NewAdminHandler(directory ports.DirectoryService, ledger ports.LedgerService, orders ports.OrderService) *AdminHandler {
	return &AdminHandler{directory: directory, ledger: ledger, orders: orders}
}

type CreateClassRequest struct {
	Name string `json:"name"`
}

type AddStudentsRequest struct {
	Students []StudentEntry `json:"students"`
}

type StudentEntry struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddStudentsResponse struct {
	Created []string `json:"created"`
}

type CreditRequest struct {
	Amount Amount `json:"amount"`
}

type DenyRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.directory.Classes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *AdminHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req CreateClassRequest
	if !decode(w, r, &req) {
		return
	}

	class, err := h.directory.CreateClass(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

func (h *AdminHandler) AddStudents(w http.ResponseWriter, r *http.Request) {
	var req AddStudentsRequest
	if !decode(w, r, &req) {
		return
	}

	roster := make([]domain.RosterEntry, 0, len(req.Students))
	for _, s := range req.Students {
		roster = append(roster, domain.RosterEntry{Username: s.Username, Password: s.Password})
	}

	created, err := h.directory.AddStudents(r.Context(), r.PathValue("class"), roster)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AddStudentsResponse{Created: created})
}

func (h *AdminHandler) Student(w http.ResponseWriter, r *http.Request) {
	view, err := h.directory.FindStudent(r.Context(), r.PathValue("class"), r.PathValue("username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.ledger.CreditBalance(r.Context(), r.PathValue("class"), r.PathValue("username"), domain.ParseAmount(string(req.Amount)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	pending, err := h.orders.PendingOrders(r.Context(), r.PathValue("class"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Approve(r.Context(), r.PathValue("class"), r.PathValue("username"), r.PathValue("orderID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) Deny(w http.ResponseWriter, r *http.Request) {
	var req DenyRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.orders.Deny(r.Context(), r.PathValue("class"), r.PathValue("username"), r.PathValue("orderID"), req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
