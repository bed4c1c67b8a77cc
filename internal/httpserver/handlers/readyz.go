package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

const readyzPingTimeout = 2 * time.Second

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz is 200 when the store answers a ping, 503 otherwise.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := checkStore(r.Context(), d)

		status := http.StatusOK
		if !store.OK {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, readyzResponse{
			Ready: store.OK,
			Components: map[string]componentStatus{
				"store":    store,
				"resolver": {OK: d.Resolver != nil},
			},
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Mode: d.StoreName, Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, readyzPingTimeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		d.Logger.Warn("readiness check failed",
			logger.String("store", d.StoreName),
			logger.Error(err))
		return componentStatus{OK: false, Mode: d.StoreName, Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: d.StoreName}
}
