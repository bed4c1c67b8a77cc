package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/stash/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Post("/api/register", handlers.Register(d))
		r.Post("/api/login", handlers.Login(d))
		r.Post("/api/logout", handlers.Logout(d))
		r.With(d.Sessions.RequireUser).Get("/api/me", handlers.Me(d))
	})
}
