package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// ProfileController expone la cuenta propia.
type ProfileController struct {
	service svc.ProfileService
}

// NewProfileController crea el controller.
func NewProfileController(s svc.ProfileService) *ProfileController {
	return &ProfileController{service: s}
}

// Me maneja GET /api/auth/me
func (c *ProfileController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.me"))

	view, err := c.service.Me(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, view)
}

// Update maneja POST /api/auth/profile
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.profile"))

	var req dto.ProfileRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	view, err := c.service.UpdateProfile(ctx, middlewares.MustGetCaller(ctx), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfileResponse{Message: "profile updated", User: view})
}
