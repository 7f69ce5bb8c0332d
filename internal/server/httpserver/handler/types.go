package handler

import (
	"time"

	"github.com/yndnr/mintvault-go/internal/core/domain"
)

// Response is the standard API response envelope. All JSON responses
// use this format (except /metrics, which uses Prometheus exposition
// format, and /v1/events/stream, which uses server-sent events).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// MintTokenRequest is the request body for POST /v1/tokens/mint.
type MintTokenRequest struct {
	To string `json:"to"`
}

// MintTokenResponse is the response body for POST /v1/tokens/mint.
type MintTokenResponse struct {
	TokenID uint64         `json:"token_id"`
	Owner   domain.Address `json:"owner"`
	URI     string         `json:"uri,omitempty"`
}

// TransferTokenRequest is the request body for POST /v1/tokens/{id}/transfer.
type TransferTokenRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TransferTokenResponse is the response body for POST /v1/tokens/{id}/transfer.
type TransferTokenResponse struct {
	TokenID uint64         `json:"token_id"`
	From    domain.Address `json:"from"`
	To      domain.Address `json:"to"`
}

// ApproveTokenRequest is the request body for POST /v1/tokens/{id}/approve.
// The zero address revokes the current approval.
type ApproveTokenRequest struct {
	Spender string `json:"spender"`
}

// ApproveTokenResponse is the response body for POST /v1/tokens/{id}/approve.
type ApproveTokenResponse struct {
	TokenID uint64         `json:"token_id"`
	Owner   domain.Address `json:"owner"`
	Spender domain.Address `json:"spender"`
}

// BurnTokenResponse is the response body for POST /v1/tokens/{id}/burn.
type BurnTokenResponse struct {
	TokenID uint64         `json:"token_id"`
	Owner   domain.Address `json:"owner"`
}

// TokenURIResponse is the response body for GET /v1/tokens/{id}/uri.
type TokenURIResponse struct {
	TokenID uint64 `json:"token_id"`
	URI     string `json:"uri"`
}

// TokenHistoryResponse is the response body for GET /v1/tokens/{id}/history.
type TokenHistoryResponse struct {
	TokenID uint64          `json:"token_id"`
	Items   []*domain.Event `json:"items"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
}

// SetOperatorRequest is the request body for POST /v1/operators.
type SetOperatorRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// OperatorResponse is the response body for operator endpoints.
type OperatorResponse struct {
	Owner    domain.Address `json:"owner"`
	Operator domain.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

// OperatorCheckResponse is the response body for
// GET /v1/operators/{owner}/{operator}.
type OperatorCheckResponse struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// BalanceResponse is the response body for GET /v1/owners/{address}/balance.
type BalanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// SetBaseURIRequest is the request body for POST /admin/v1/base-uri.
type SetBaseURIRequest struct {
	BaseURI string `json:"base_uri"`
}
