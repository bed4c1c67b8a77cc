package deps

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/library"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the API
	AllowedCIDRS []string         // IPs allowed to access readyz/metrics endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	StoreName    string           // "redis" | "memory", reported by readyz
	Store        Pinger           // backing store, pinged by readyz

	Resolver library.PreviewResolver // link metadata resolver
	Library  *library.Service        // links, folders, sharing, import
	Auth     *auth.Service           // registration and login
	Sessions *auth.Sessions          // session cookies

	Gatherer prometheus.Gatherer // served on /metrics; nil disables the route

	MetadataBurst        int // rate limit for /api/metadata, per client IP
	MetadataRefillPerMin int
	MaxImportBytes       int64 // largest accepted bookmarks.yaml body
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
