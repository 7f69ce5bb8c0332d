package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/infra/buildinfo"
)

// handlePause handles POST /admin/v1/pause.
func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	err := h.registry.Pause(r.Context(), &service.PauseRequest{Caller: caller(r)})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"paused": true})
}

// handleUnpause handles POST /admin/v1/unpause.
func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	err := h.registry.Unpause(r.Context(), &service.UnpauseRequest{Caller: caller(r)})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"paused": false})
}

// handleSetBaseURI handles POST /admin/v1/base-uri.
func (h *Handler) handleSetBaseURI(w http.ResponseWriter, r *http.Request) {
	var req SetBaseURIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "MV-SYS-4000", "invalid request body", nil)
		return
	}

	err := h.registry.SetBaseURI(r.Context(), &service.SetBaseURIRequest{
		Caller:  caller(r),
		BaseURI: req.BaseURI,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"base_uri": req.BaseURI})
}

// handleAdminStatus handles GET /admin/v1/status/summary.
func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	summary := map[string]any{
		"status":     "running",
		"build":      buildinfo.Get(),
		"collection": h.registry.Collection(),
		"time":       time.Now().UTC().Format(time.RFC3339),
	}

	if h.maintainer != nil {
		if stats, err := h.maintainer.Stats(r.Context()); err == nil {
			summary["storage"] = stats
		}
	}

	h.writeJSON(w, r, http.StatusOK, summary)
}

// handleGCTrigger handles POST /admin/v1/gc/trigger.
func (h *Handler) handleGCTrigger(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if h.maintainer == nil {
		h.writeError(w, r, http.StatusNotImplemented, "MV-SYS-5000", "storage maintenance not available", nil)
		return
	}

	reclaimed, err := h.maintainer.GC(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":         true,
		"reclaimed_bytes": reclaimed,
		"triggered_at":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreateSnapshot handles POST /admin/v1/snapshots.
func (h *Handler) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if h.snapshots == nil {
		h.writeError(w, r, http.StatusNotImplemented, "MV-SYS-5000", "snapshots not configured", nil)
		return
	}

	info, err := h.snapshots.Create(h.registry.Snapshot())
	if err != nil {
		h.logger.Error("snapshot creation failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "MV-SYS-5001", "snapshot creation failed", nil)
		return
	}

	if h.metrics != nil {
		h.metrics.SnapshotSize.Set(float64(info.Size))
	}

	h.writeJSON(w, r, http.StatusCreated, info)
}

// handleListSnapshots handles GET /admin/v1/snapshots.
func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if h.snapshots == nil {
		h.writeError(w, r, http.StatusNotImplemented, "MV-SYS-5000", "snapshots not configured", nil)
		return
	}

	infos, err := h.snapshots.List()
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "MV-SYS-5001", "snapshot listing failed", nil)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"snapshots": infos,
		"count":     len(infos),
	})
}
