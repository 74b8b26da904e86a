// Package auth contiene los controllers de sesión, signup y perfil propio.
package auth

import (
	"net/http"
	"strings"
	"time"

	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
)

// CookieConfig describe la cookie que transporta el refresh token.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// ParseSameSite convierte "lax" | "strict" | "none".
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Session *SessionController
	Signup  *SignupController
	Profile *ProfileController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, cookie CookieConfig) *Controllers {
	if cookie.Name == "" {
		cookie.Name = "refreshToken"
	}
	if cookie.Path == "" {
		cookie.Path = "/api/auth"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = jwtx.DefaultRefreshTTL
	}
	return &Controllers{
		Session: NewSessionController(s.Session, cookie),
		Signup:  NewSignupController(s.Signup, cookie),
		Profile: NewProfileController(s.Profile),
	}
}

// setRefreshCookie fija MaxAge al TTL del refresh, sin Expires.
func setRefreshCookie(w http.ResponseWriter, c CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   int(c.MaxAge.Seconds()),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}

func clearRefreshCookie(w http.ResponseWriter, c CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}
