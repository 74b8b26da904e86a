// Package auth contiene DTOs para endpoints de autenticación.
package auth

import (
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// SignupRequest da de alta una organización y su cuenta OWNER.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	LabName   string `json:"labName,omitempty"`
}

// LoginRequest representa la solicitud de login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest: el token también puede venir en la cookie refreshToken.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ProfileRequest son los campos que una cuenta puede editar de sí misma.
type ProfileRequest struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// UserView es la vista pública de una cuenta. Nunca incluye hash ni marker.
type UserView struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	ProfileImage  string       `json:"profileImage,omitempty"`
	Role          string       `json:"role"`
	OrgID         int64        `json:"orgid"`
	Active        bool         `json:"isActive"`
	StaffRoleName *string      `json:"staffRoleName"`
	Permissions   types.Matrix `json:"permissions"`
}

// LoginResult es el resultado interno de login y signup.
type LoginResult struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             UserView
}

// LoginResponse es el cuerpo de login y signup.
type LoginResponse struct {
	Success      bool     `json:"success"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         UserView `json:"user"`
}

// RefreshResponse devuelve solo un access token nuevo. El refresh no rota.
type RefreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// ProfileResponse envuelve la vista actualizada.
type ProfileResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}
