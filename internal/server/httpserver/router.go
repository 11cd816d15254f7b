package httpserver

import (
	"net/http"

	"github.com/mshears713/HudsonBayOutposts/internal/core/service"
	"github.com/mshears713/HudsonBayOutposts/internal/server/httpserver/handler"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// Version is reported by the /status endpoint.
const Version = "1.0.0"

// RouterConfig holds the services and settings for the HTTP router.
type RouterConfig struct {
	// AuthService issues and validates session tokens.
	AuthService *service.AuthService

	// InventoryService handles record operations.
	InventoryService *service.InventoryService

	// SyncService handles export and import.
	SyncService *service.SyncService

	// Fort is the outpost identity.
	Fort string

	// Logger for request logging.
	Logger logger.Logger

	// Metrics registry. May be nil.
	Metrics *metric.Registry
}

// NewRouter builds the outpost API router with all routes and middleware.
//
// Reads require any authenticated role, mutations require commander or
// trader, sync requires commander. Health, status, login and metrics
// are open.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.AuthService, cfg.InventoryService, cfg.SyncService, cfg.Fort, Version, log)

	base := []Middleware{
		RequestID(),
		Recover(log),
		Observe(log, cfg.Metrics),
	}
	authed := append(append([]Middleware{}, base...), BearerAuth(cfg.AuthService, log))
	mutate := append(append([]Middleware{}, authed...), RequireMutate(log))
	syncing := append(append([]Middleware{}, authed...), RequireSync(log))

	open := func(fn http.HandlerFunc) http.Handler { return Chain(fn, base...) }
	read := func(fn http.HandlerFunc) http.Handler { return Chain(fn, authed...) }
	write := func(fn http.HandlerFunc) http.Handler { return Chain(fn, mutate...) }
	syncOp := func(fn http.HandlerFunc) http.Handler { return Chain(fn, syncing...) }

	mux := http.NewServeMux()

	mux.Handle("GET /health", open(h.Health))
	mux.Handle("GET /status", open(h.Status))
	mux.Handle("POST /auth/login", open(h.Login))
	mux.Handle("POST /auth/logout", read(h.Logout))

	mux.Handle("GET /inventory", read(h.ListInventory))
	mux.Handle("POST /inventory", write(h.CreateRecord))
	mux.Handle("GET /inventory/{category}/{name}", read(h.GetRecord))
	mux.Handle("PUT /inventory/{category}/{name}", write(h.UpdateRecord))
	mux.Handle("DELETE /inventory/{category}/{name}", write(h.DeleteRecord))

	mux.Handle("POST /sync/export-inventory", syncOp(h.Export))
	mux.Handle("POST /sync/import-inventory", syncOp(h.Import))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return mux
}
