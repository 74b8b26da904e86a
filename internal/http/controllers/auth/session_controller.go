package auth

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

var accessTTLSeconds = int64(jwtx.AccessTTL.Seconds())

// SessionController maneja login, refresh y logout.
type SessionController struct {
	service svc.SessionService
	cookie  CookieConfig
}

// NewSessionController crea el controller.
func NewSessionController(s svc.SessionService, cookie CookieConfig) *SessionController {
	return &SessionController{service: s, cookie: cookie}
}

// Login maneja POST /api/auth/login
func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.service.Login(ctx, req, helpers.ClientIP(r))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}

	setRefreshCookie(w, c.cookie, res.RefreshToken)
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Success:      true,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    accessTTLSeconds,
		User:         res.User,
	})
}

// Refresh maneja POST /api/auth/refresh. El token del body gana sobre la cookie.
func (c *SessionController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.refresh"))

	var req dto.RefreshRequest
	if !helpers.ReadOptionalJSON(w, r, &req) {
		return
	}
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		if ck, err := r.Cookie(c.cookie.Name); err == nil {
			raw = strings.TrimSpace(ck.Value)
		}
	}

	tok, _, err := c.service.Refresh(ctx, raw)
	if err != nil {
		// solo un rechazo del token invalida la cookie; un 500 la conserva
		if raw != "" && (errors.Is(err, svc.ErrUnauthenticated) || errors.Is(err, svc.ErrSessionRevoked)) {
			clearRefreshCookie(w, c.cookie)
		}
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.RefreshResponse{
		Success:     true,
		AccessToken: tok,
		ExpiresIn:   accessTTLSeconds,
	})
}

// Logout maneja POST /api/auth/logout. Requiere RequireAuth.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.logout"))

	caller := middlewares.MustGetCaller(ctx)
	if err := c.service.Logout(ctx, caller); err != nil {
		writeServiceError(w, err, log)
		return
	}
	clearRefreshCookie(w, c.cookie)
	w.WriteHeader(http.StatusNoContent)
}
