package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/storage"
	"github.com/yndnr/mintvault-go/internal/storage/snapshot"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
	"github.com/yndnr/mintvault-go/internal/telemetry/metric"
)

// Maintainer exposes storage maintenance operations on the admin API.
// *storage.BadgerEngine satisfies it.
type Maintainer interface {
	GC(ctx context.Context) (uint64, error)
	Stats(ctx context.Context) (*storage.KVStats, error)
}

// Snapshotter creates and lists state snapshots. *snapshot.Manager
// satisfies it.
type Snapshotter interface {
	Create(st *ledger.State) (*snapshot.Info, error)
	List() ([]*snapshot.Info, error)
}

// Options carries optional collaborators for the handler.
type Options struct {
	Metrics    *metric.Registry
	Maintainer Maintainer
	Snapshots  Snapshotter
	Logger     logger.Logger
}

// Handler is the main HTTP handler that routes requests to the
// registry service.
type Handler struct {
	registry   *service.RegistryService
	metrics    *metric.Registry
	maintainer Maintainer
	snapshots  Snapshotter
	logger     logger.Logger
	mux        *http.ServeMux
}

// New creates a new Handler with the given registry service.
func New(registry *service.RegistryService, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	h := &Handler{
		registry:   registry,
		metrics:    opts.Metrics,
		maintainer: opts.Maintainer,
		snapshots:  opts.Snapshots,
		logger:     log,
		mux:        http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Collection endpoints
	h.mux.HandleFunc("GET /v1/collection", h.handleCollection)

	// Token endpoints
	h.mux.HandleFunc("POST /v1/tokens/mint", h.handleMint)
	h.mux.HandleFunc("GET /v1/tokens/{id}", h.handleGetToken)
	h.mux.HandleFunc("GET /v1/tokens/{id}/uri", h.handleTokenURI)
	h.mux.HandleFunc("GET /v1/tokens/{id}/history", h.handleTokenHistory)
	h.mux.HandleFunc("POST /v1/tokens/{id}/transfer", h.handleTransfer)
	h.mux.HandleFunc("POST /v1/tokens/{id}/approve", h.handleApprove)
	h.mux.HandleFunc("POST /v1/tokens/{id}/burn", h.handleBurn)

	// Owner and operator endpoints
	h.mux.HandleFunc("GET /v1/owners/{address}/balance", h.handleBalance)
	h.mux.HandleFunc("POST /v1/operators", h.handleSetOperator)
	h.mux.HandleFunc("GET /v1/operators/{owner}/{operator}", h.handleCheckOperator)

	// Event stream
	h.mux.HandleFunc("GET /v1/events/stream", h.handleEventStream)

	// Admin endpoints
	h.mux.HandleFunc("POST /admin/v1/pause", h.handlePause)
	h.mux.HandleFunc("POST /admin/v1/unpause", h.handleUnpause)
	h.mux.HandleFunc("POST /admin/v1/base-uri", h.handleSetBaseURI)
	h.mux.HandleFunc("GET /admin/v1/status/summary", h.handleAdminStatus)
	h.mux.HandleFunc("POST /admin/v1/gc/trigger", h.handleGCTrigger)
	h.mux.HandleFunc("POST /admin/v1/snapshots", h.handleCreateSnapshot)
	h.mux.HandleFunc("GET /admin/v1/snapshots", h.handleListSnapshots)
}

// caller extracts the caller address from the request. Authentication
// is an external collaborator; the registry enforces authorization
// against this identity.
func caller(r *http.Request) string {
	return r.Header.Get("X-Caller-Address")
}

// requireAdmin verifies the caller is the collection administrator.
// Mutating admin operations re-check inside the ledger; this guards
// the read-and-maintenance endpoints that bypass it.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	addr, err := domain.ParseAddress(caller(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return false
	}
	if addr != h.registry.Collection().Admin {
		h.writeError(w, r, http.StatusForbidden, "MV-AUTH-4031", "administrator role required", nil)
		return false
	}
	return true
}

// pathTokenID parses the {id} path segment as a decimal token id.
func pathTokenID(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidArgument.WithDetails("token id must be a decimal integer")
	}
	return id, nil
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.logger.Error("internal error", "error", err,
		"request_id", logger.RequestIDFromContext(r.Context()))
	h.writeError(w, r, http.StatusInternalServerError, "MV-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"),
		strings.HasSuffix(code, "-4092"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "MV-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4000"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "MV-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
