package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := d.Auth.Register(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrConflict):
				writeMessage(w, http.StatusConflict, "User already exists")
			case errors.Is(err, domain.ErrInvalidInput):
				writeMessage(w, http.StatusBadRequest, "Email and password are required")
			default:
				writeError(w, r, d.Logger, err)
			}
			return
		}

		// Registration echoes name and email only.
		writeJSON(w, http.StatusCreated, registerResponse{
			Message: "User created successfully",
			User:    domain.PublicUser{Name: user.Name, Email: user.Email},
		})
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeJSON(w, r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := d.Auth.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		if err := d.Sessions.Login(w, r, user.ID); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Public())
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.Logout(w, r); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me returns the signed-in user.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := d.Auth.User(r.Context(), userID(r))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Public())
	}
}
