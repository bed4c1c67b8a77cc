package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/stash/internal/httpserver/mw"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	r.Route("/api/folders", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), d.Sessions.RequireUser)
		r.Get("/", handlers.ListFolders(d))
		r.Post("/", handlers.CreateFolder(d))
		r.Patch("/{folderId}", handlers.RenameFolder(d))
		r.Delete("/{folderId}", handlers.DeleteFolder(d))
		r.Patch("/{folderId}/share", handlers.ShareFolder(d))
	})

	// Public, no session.
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/share/{slug}", handlers.SharedFolder(d))
}
