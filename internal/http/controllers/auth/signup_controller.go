package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// SignupController maneja el alta de organizaciones.
type SignupController struct {
	service svc.SignupService
	cookie  CookieConfig
}

// NewSignupController crea el controller.
func NewSignupController(s svc.SignupService, cookie CookieConfig) *SignupController {
	return &SignupController{service: s, cookie: cookie}
}

// Signup maneja POST /api/auth/signup
func (c *SignupController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.signup"))

	var req dto.SignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	res, err := c.service.Signup(ctx, req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}

	setRefreshCookie(w, c.cookie, res.RefreshToken)
	helpers.WriteJSON(w, http.StatusCreated, dto.LoginResponse{
		Success:      true,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    accessTTLSeconds,
		User:         res.User,
	})
}
