package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/importer"
	"github.com/MrSnakeDoc/stash/internal/library"
)

// DefaultMaxImportBytes caps an uploaded bookmarks.yaml.
const DefaultMaxImportBytes = 1 << 20

// userID is set by auth.Sessions.RequireUser on every route using it.
func userID(r *http.Request) string {
	id, _ := auth.UserIDFrom(r.Context())
	return id
}

func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := library.LinkFilter{
			FolderID:      strings.TrimSpace(q.Get("folderId")),
			FavoritesOnly: queryBool(q.Get("favorites")),
			Archived:      queryBool(q.Get("archived")),
		}

		links, err := d.Library.ListLinks(r.Context(), userID(r), filter)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}

func SaveLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req library.NewLink
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.URL) == "" {
			writeMessage(w, http.StatusBadRequest, "URL is required")
			return
		}

		link, err := d.Library.SaveLink(r.Context(), userID(r), req)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch library.LinkPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		link, err := d.Library.UpdateLink(r.Context(), userID(r), chi.URLParam(r, "linkId"), patch)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

// DeleteLink answers 403 for both missing and foreign links.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Library.DeleteLink(r.Context(), userID(r), chi.URLParam(r, "linkId"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = fmt.Errorf("%w: %w", domain.ErrForbidden, err)
			}
			writeError(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportLinks takes a Homepage bookmarks.yaml as the raw request body.
func ImportLinks(d deps.Deps) http.HandlerFunc {
	limit := d.MaxImportBytes
	if limit <= 0 {
		limit = DefaultMaxImportBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeMessage(w, http.StatusRequestEntityTooLarge, "Bookmarks file is too large")
				return
			}
			writeMessage(w, http.StatusBadRequest, "Failed to read bookmarks file")
			return
		}

		entries, err := importer.ParseHomepage(data)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := d.Library.ImportBookmarks(r.Context(), userID(r), entries)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func queryBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
