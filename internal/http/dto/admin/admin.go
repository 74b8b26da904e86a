// Package admin contiene DTOs de la administración de roles y staff.
package admin

import (
	"encoding/json"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// RoleRequest crea o actualiza un rol. Permissions se valida con forma
// completa (seis entidades, cuatro acciones).
type RoleRequest struct {
	Name        string          `json:"name"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
}

// RoleView es la vista de un rol.
type RoleView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	OrgID       int64        `json:"orgid"`
	Permissions types.Matrix `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CreateStaffRequest da de alta una cuenta STAFF.
type CreateStaffRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName,omitempty"`
	StaffRoleID string `json:"staffRoleId"`
}

// UpdateStaffRequest: nil = sin cambios.
type UpdateStaffRequest struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	StaffRoleID *string `json:"staffRoleId,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// StaffView es la vista de una cuenta en la administración.
type StaffView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Role         string    `json:"role"`
	OrgID        int64     `json:"orgid"`
	IsActive     bool      `json:"isActive"`
	StaffRole    *RoleRef  `json:"staffRole"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleRef es la referencia al rol custom dentro de StaffView.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats son los contadores del panel de administración.
type Stats struct {
	TotalStaff  int `json:"totalStaff"`
	TotalRoles  int `json:"totalRoles"`
	ActiveUsers int `json:"activeUsers"`
}
