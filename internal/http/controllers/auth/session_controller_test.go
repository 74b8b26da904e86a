package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
)

type stubSession struct {
	refreshErr error
}

func (s stubSession) Login(context.Context, dto.LoginRequest, string) (*dto.LoginResult, error) {
	return nil, errors.New("not used")
}

func (s stubSession) Refresh(context.Context, string) (string, time.Time, error) {
	if s.refreshErr != nil {
		return "", time.Time{}, s.refreshErr
	}
	return "new-access", time.Now().Add(30 * time.Minute), nil
}

func (s stubSession) Logout(context.Context, types.Caller) error { return nil }

func refreshWithCookie(t *testing.T, refreshErr error) *httptest.ResponseRecorder {
	t.Helper()
	c := NewSessionController(stubSession{refreshErr: refreshErr}, CookieConfig{Name: "refreshToken", Path: "/api/auth"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "rt"})
	rec := httptest.NewRecorder()
	c.Refresh(rec, req)
	return rec
}

func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" && ck.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestRefresh_CookieClearedOnlyWhenTokenRejected(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		cleared bool
	}{
		{"ok", nil, http.StatusOK, false},
		{"revoked", svc.ErrSessionRevoked, http.StatusUnauthorized, true},
		{"invalid", svc.ErrUnauthenticated, http.StatusUnauthorized, true},
		{"store down", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := refreshWithCookie(t, tc.err)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.cleared, clearedCookie(rec))
		})
	}
}
