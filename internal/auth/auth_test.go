package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestRegister(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Ada@Example.com ", "hunter2", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	_, err = svc.Register(ctx, "ada@example.com", "other", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", "pw"},
		{"missing password", "a@b.c", ""},
		{"password too long", "a@b.c", strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, "")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(memory.NewStore(), logger.Nop())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ada@example.com", "hunter2", "Ada")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ADA@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	loaded, err := svc.User(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", loaded.Name)
}

func TestNewSessionsRejectsShortSecret(t *testing.T) {
	_, err := NewSessions("short", true)
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	s, err := NewSessions(testSecret, false)
	require.NoError(t, err)

	login := httptest.NewRecorder()
	require.NoError(t, s.Login(login, httptest.NewRequest(http.MethodPost, "/api/login", nil), "user-1"))

	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, SessionMaxAge, cookies[0].MaxAge)

	var seen string
	protected := s.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", seen)
}

func TestRequireUserRejects(t *testing.T) {
	s, err := NewSessions(testSecret, false)
	require.NoError(t, err)

	protected := s.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"tampered cookie", &http.Cookie{Name: SessionName, Value: "forged"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	s, err := NewSessions(testSecret, true)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}
