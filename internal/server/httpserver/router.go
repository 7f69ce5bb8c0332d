package httpserver

import (
	"net/http"

	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/server/httpserver/handler"
	"github.com/yndnr/mintvault-go/internal/telemetry/logger"
	"github.com/yndnr/mintvault-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Registry handles all token registry operations.
	Registry *service.RegistryService

	// Metrics serves /metrics and records request telemetry. Optional.
	Metrics *metric.Registry

	// Maintainer exposes storage maintenance on the admin API. Optional.
	Maintainer handler.Maintainer

	// Snapshots creates and lists state snapshots. Optional.
	Snapshots handler.Snapshotter

	// Logger for request logging.
	Logger logger.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// RateLimit is the per-client rate limit in requests/second.
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-client burst allowance.
	RateBurst int

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Registry, handler.Options{
		Metrics:    cfg.Metrics,
		Maintainer: cfg.Maintainer,
		Snapshots:  cfg.Snapshots,
		Logger:     log,
	})

	// Business chain, outermost first:
	// Recover -> CORS -> RequestID -> RateLimit -> Metrics -> Audit -> handler
	business := []Middleware{
		Recover(log),
		CORS(cfg.CORSAllowedOrigins),
		RequestID(),
	}
	if cfg.RateLimit > 0 {
		business = append(business, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.Metrics != nil {
		business = append(business, Metrics(cfg.Metrics))
	}
	if cfg.EnableAudit {
		business = append(business, Audit(log))
	}
	businessHandler := Chain(h, business...)

	// Health and metrics endpoints stay reachable even when the rate
	// limiter is saturated.
	probeHandler := Chain(h, Recover(log), RequestID())

	mux := http.NewServeMux()

	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log)))
	}

	// Collection
	mux.Handle("GET /v1/collection", businessHandler)

	// Tokens
	mux.Handle("POST /v1/tokens/mint", businessHandler)
	mux.Handle("GET /v1/tokens/{id}", businessHandler)
	mux.Handle("GET /v1/tokens/{id}/uri", businessHandler)
	mux.Handle("GET /v1/tokens/{id}/history", businessHandler)
	mux.Handle("POST /v1/tokens/{id}/transfer", businessHandler)
	mux.Handle("POST /v1/tokens/{id}/approve", businessHandler)
	mux.Handle("POST /v1/tokens/{id}/burn", businessHandler)

	// Owners and operators
	mux.Handle("GET /v1/owners/{address}/balance", businessHandler)
	mux.Handle("POST /v1/operators", businessHandler)
	mux.Handle("GET /v1/operators/{owner}/{operator}", businessHandler)

	// Event stream. Kept off the metrics/audit wrappers' duration
	// tracking is fine, but it must bypass the rate limiter so a
	// long-lived stream does not consume the caller's budget.
	mux.Handle("GET /v1/events/stream", Chain(h, Recover(log), RequestID()))

	// Admin API. Authorization against the configured admin address
	// happens inside the ledger.
	mux.Handle("POST /admin/v1/pause", businessHandler)
	mux.Handle("POST /admin/v1/unpause", businessHandler)
	mux.Handle("POST /admin/v1/base-uri", businessHandler)
	mux.Handle("GET /admin/v1/status/summary", businessHandler)
	mux.Handle("POST /admin/v1/gc/trigger", businessHandler)
	mux.Handle("POST /admin/v1/snapshots", businessHandler)
	mux.Handle("GET /admin/v1/snapshots", businessHandler)

	return mux
}
