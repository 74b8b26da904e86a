// Package rbac evalúa permisos entidad × acción para un caller ya autenticado.
//
// La evaluación es pura: no hace I/O. La matriz del rol STAFF se carga en el
// Caller antes de llegar acá (ver auth.Resolver).
package rbac

import "github.com/dropDatabas3/labauth/internal/domain/types"

// HasPermission decide si caller puede ejecutar action sobre entity.
//
//   - OWNER: siempre
//   - GENERIC_USER: nunca sobre entidades administrativas
//   - STAFF: según la matriz de su rol; sin matriz, entidad o acción desconocida => false
func HasPermission(caller types.Caller, entity types.Entity, action types.Action) bool {
	switch caller.Role {
	case types.RoleOwner:
		return true
	case types.RoleStaff:
		if !entity.IsValid() || !action.IsValid() {
			return false
		}
		return caller.Matrix.Allows(entity, action)
	default:
		return false
	}
}

// Evaluator expone HasPermission detrás de una interfaz para inyectarla en services.
type Evaluator interface {
	HasPermission(caller types.Caller, entity types.Entity, action types.Action) bool
}

type evaluator struct{}

// NewEvaluator devuelve el evaluador por defecto.
func NewEvaluator() Evaluator { return evaluator{} }

func (evaluator) HasPermission(caller types.Caller, entity types.Entity, action types.Action) bool {
	return HasPermission(caller, entity, action)
}
