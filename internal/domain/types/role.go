// Package types define tipos de dominio compartidos entre paquetes.
package types

import "strings"

// CoarseRole es el rol grueso de una cuenta. Viaja dentro de los tokens.
type CoarseRole string

const (
	// RoleOwner es el dueño de la organización. Tiene todos los permisos.
	RoleOwner CoarseRole = "OWNER"
	// RoleGenericUser no tiene permisos administrativos.
	RoleGenericUser CoarseRole = "GENERIC_USER"
	// RoleStaff depende de la matriz del rol custom asignado.
	RoleStaff CoarseRole = "STAFF"
)

// IsValid retorna true si el rol es uno de los conocidos.
func (r CoarseRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleGenericUser, RoleStaff:
		return true
	}
	return false
}

// ParseCoarseRole normaliza s (case-insensitive). Acepta "ADMIN" y "USER" de datos legados.
func ParseCoarseRole(s string) (CoarseRole, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OWNER", "ADMIN":
		return RoleOwner, true
	case "GENERIC_USER", "USER":
		return RoleGenericUser, true
	case "STAFF":
		return RoleStaff, true
	}
	return "", false
}
