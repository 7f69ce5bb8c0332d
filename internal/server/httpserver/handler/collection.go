package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/mintvault-go/internal/core/service"
)

// handleCollection handles GET /v1/collection.
func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.registry.Collection())
}

// handleBalance handles GET /v1/owners/{address}/balance.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	balance, err := h.registry.BalanceOf(address)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, BalanceResponse{
		Address: address,
		Balance: balance,
	})
}

// handleSetOperator handles POST /v1/operators.
func (h *Handler) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	var req SetOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MV-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.registry.SetApprovalForAll(r.Context(), &service.SetApprovalForAllRequest{
		Caller:   caller(r),
		Operator: req.Operator,
		Approved: req.Approved,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, OperatorResponse{
		Owner:    resp.Owner,
		Operator: resp.Operator,
		Approved: resp.Approved,
	})
}

// handleCheckOperator handles GET /v1/operators/{owner}/{operator}.
func (h *Handler) handleCheckOperator(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	operator := r.PathValue("operator")

	approved, err := h.registry.IsApprovedForAll(owner, operator)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, OperatorCheckResponse{
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	})
}
