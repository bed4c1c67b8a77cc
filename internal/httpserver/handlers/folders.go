package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
)

type folderRequest struct {
	Name string `json:"name"`
}

type shareRequest struct {
	IsPublic *bool `json:"isPublic"`
}

func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := d.Library.ListFolders(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, folders)
	}
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeMessage(w, http.StatusBadRequest, "Name is required")
			return
		}

		folder, err := d.Library.CreateFolder(r.Context(), userID(r), req.Name)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, folder)
	}
}

func RenameFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeMessage(w, http.StatusBadRequest, "Name is required")
			return
		}

		folder, err := d.Library.RenameFolder(r.Context(), userID(r), chi.URLParam(r, "folderId"), req.Name)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, folder)
	}
}

func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Library.DeleteFolder(r.Context(), userID(r), chi.URLParam(r, "folderId")); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ShareFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shareRequest
		if err := decodeJSON(w, r, &req); err != nil || req.IsPublic == nil {
			writeMessage(w, http.StatusBadRequest, "isPublic is required")
			return
		}

		folder, err := d.Library.SetFolderPublic(r.Context(), userID(r), chi.URLParam(r, "folderId"), *req.IsPublic)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, folder)
	}
}

// SharedFolder serves a public folder to anyone holding its slug.
func SharedFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared, err := d.Library.PublicFolder(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, shared)
	}
}
