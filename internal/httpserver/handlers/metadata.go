package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

type metadataRequest struct {
	URL string `json:"url"`
}

// Metadata resolves a URL into a link preview. Fetch problems still answer
// 200 with the URL-only preview; only unexpected failures are a 500.
func Metadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req metadataRequest
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.URL) == "" {
			writeMessage(w, http.StatusBadRequest, "URL is required")
			return
		}

		res, err := d.Resolver.Resolve(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				writeMessage(w, http.StatusBadRequest, "URL is required")
				return
			}
			d.Logger.Error("metadata resolution failed",
				logger.String("url", req.URL),
				logger.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch metadata")
			return
		}

		if res.Degraded {
			d.Logger.Debug("serving degraded preview",
				logger.String("url", req.URL),
				logger.Error(res.Cause))
		}

		writeJSON(w, http.StatusOK, res.Preview)
	}
}
