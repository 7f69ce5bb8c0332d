package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/eventarchive"
)

// handleMint handles POST /v1/tokens/mint.
func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	var req MintTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MV-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.registry.Mint(r.Context(), &service.MintRequest{
		Caller: caller(r),
		To:     req.To,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, MintTokenResponse{
		TokenID: resp.TokenID,
		Owner:   resp.Owner,
		URI:     resp.TokenURI,
	})
}

// handleGetToken handles GET /v1/tokens/{id}.
func (h *Handler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	view, err := h.registry.GetToken(id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, view)
}

// handleTokenURI handles GET /v1/tokens/{id}/uri.
func (h *Handler) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	uri, err := h.registry.TokenURI(id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, TokenURIResponse{TokenID: id, URI: uri})
}

// handleTokenHistory handles GET /v1/tokens/{id}/history.
func (h *Handler) handleTokenHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	offset, limit := parsePaging(r)
	items, err := h.registry.TokenHistory(r.Context(), id, offset, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*domain.Event{}
	}

	h.writeJSON(w, r, http.StatusOK, TokenHistoryResponse{
		TokenID: id,
		Items:   items,
		Offset:  offset,
		Limit:   limit,
	})
}

// handleTransfer handles POST /v1/tokens/{id}/transfer.
func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req TransferTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MV-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.registry.Transfer(r.Context(), &service.TransferRequest{
		Caller:  caller(r),
		From:    req.From,
		To:      req.To,
		TokenID: id,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, TransferTokenResponse{
		TokenID: resp.TokenID,
		From:    resp.From,
		To:      resp.To,
	})
}

// handleApprove handles POST /v1/tokens/{id}/approve.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req ApproveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MV-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.registry.Approve(r.Context(), &service.ApproveRequest{
		Caller:  caller(r),
		Spender: req.Spender,
		TokenID: id,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ApproveTokenResponse{
		TokenID: resp.TokenID,
		Owner:   resp.Owner,
		Spender: resp.Spender,
	})
}

// handleBurn handles POST /v1/tokens/{id}/burn.
func (h *Handler) handleBurn(w http.ResponseWriter, r *http.Request) {
	id, err := pathTokenID(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.registry.Burn(r.Context(), &service.BurnRequest{
		Caller:  caller(r),
		TokenID: id,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, BurnTokenResponse{
		TokenID: resp.TokenID,
		Owner:   resp.Owner,
	})
}

// parsePaging parses offset/limit query parameters with archive
// defaults and caps.
func parsePaging(r *http.Request) (offset, limit int) {
	limit = eventarchive.DefaultPageSize

	query := r.URL.Query()
	if v := query.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, eventarchive.MaxPageSize)
		}
	}
	return offset, limit
}
