package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/stash/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Route("/api/links", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), d.Sessions.RequireUser)
		r.Get("/", handlers.ListLinks(d))
		r.Post("/", handlers.SaveLink(d))
		r.Post("/import", handlers.ImportLinks(d))
		r.Patch("/{linkId}", handlers.UpdateLink(d))
		r.Delete("/{linkId}", handlers.DeleteLink(d))
	})
}
