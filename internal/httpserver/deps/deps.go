package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/index"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/reconcile"
	"github.com/MrSnakeDoc/bgr/internal/review"
	"github.com/MrSnakeDoc/bgr/internal/stats"
)

// Catalog is the remote catalog as seen by the HTTP layer.
type Catalog interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Hot(ctx context.Context) ([]domain.HotListEntry, error)
	BreakerState() string
}

// Pinger reports whether the storage backend answers. Nil in memory mode.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string // Host headers allowed to access admin routes
	AllowedCIDRS   []string // IPs allowed to access admin routes
	TrustProxy     bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AllowedOrigins []string // CORS origins
	RateBurst      int      // per-IP burst on mutating routes
	RatePerMinute  int      // per-IP refill on mutating routes

	// RateLimit is shared by every rate limited route. Set by httpserver.NewRouter when nil.
	RateLimit func(http.Handler) http.Handler

	StorageMode string             // "memory" | "redis"
	Storage     Pinger             // nil in memory mode
	MemoryIndex *index.MemoryIndex // in-memory catalog
	Games       domain.GameRepository
	Users       domain.UserRepository

	Catalog    Catalog
	Reconciler *reconcile.Service
	Reviews    *review.Service
	Stats      *stats.Service

	SyncTrigger chan struct{} // manual hot-list sync (nil if the syncer is disabled)
}
