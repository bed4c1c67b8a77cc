package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the signed session.
	SessionName = "stash_session"
	// SessionMaxAge is 30 days, in seconds.
	SessionMaxAge = 30 * 24 * 60 * 60
	// MinSecretLength is the shortest accepted signing key.
	MinSecretLength = 32

	userIDKey = "user_id"
)

type ctxKey struct{}

// Sessions issues and reads signed session cookies.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string, secure bool) (*Sessions, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("STASH_SESSION_SECRET must be at least %d bytes", MinSecretLength)
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}, nil
}

// Login starts a session for userID.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	// A stale or tampered cookie yields a fresh session and an error we can ignore.
	session, _ := s.store.Get(r, SessionName)
	session.Values[userIDKey] = userID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout expires the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UserID returns the user of the request's session, if any.
func (s *Sessions) UserID(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return "", false
	}
	id, ok := session.Values[userIDKey].(string)
	return id, ok && id != ""
}

// RequireUser rejects requests without a valid session with 401 and stores
// the user id in the request context for the next handler.
func (s *Sessions) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.UserID(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserIDFrom returns the id stored by RequireUser.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
