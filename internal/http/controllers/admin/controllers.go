// Package admin expone la administración de roles y staff de una organización.
package admin

import (
	svc "github.com/dropDatabas3/labauth/internal/http/services/admin"
)

// Controllers agrupa los controllers de administración.
type Controllers struct {
	Roles *RolesController
	Staff *StaffController
	Stats *StatsController
}

// NewControllers crea el agregador.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Roles: NewRolesController(s.Roles),
		Staff: NewStaffController(s.Staff),
		Stats: NewStatsController(s.Stats),
	}
}
