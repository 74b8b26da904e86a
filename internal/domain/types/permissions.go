package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Entity es el recurso sobre el que se evalúa un permiso. Conjunto cerrado.
type Entity string

const (
	EntityBill       Entity = "bill"
	EntityReport     Entity = "report"
	EntityPatient    Entity = "patient"
	EntityTest       Entity = "test"
	EntityDoctor     Entity = "doctor"
	EntityDepartment Entity = "department"
)

// Entities lista las entidades en orden estable.
var Entities = []Entity{
	EntityBill,
	EntityReport,
	EntityPatient,
	EntityTest,
	EntityDoctor,
	EntityDepartment,
}

// IsValid retorna true si la entidad pertenece al conjunto cerrado.
func (e Entity) IsValid() bool {
	for _, x := range Entities {
		if x == e {
			return true
		}
	}
	return false
}

// Action es la operación sobre una entidad. Conjunto cerrado.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lista las acciones en orden estable.
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// IsValid retorna true si la acción pertenece al conjunto cerrado.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ErrInvalidMatrix se devuelve cuando una matriz no tiene la forma completa.
var ErrInvalidMatrix = errors.New("invalid permission matrix")

// Permissions son los cuatro flags de una entidad.
type Permissions struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// DefaultPermissions: solo lectura.
func DefaultPermissions() Permissions {
	return Permissions{Read: true}
}

// Allows retorna el flag de la acción. Acción desconocida => false.
func (p Permissions) Allows(a Action) bool {
	switch a {
	case ActionCreate:
		return p.Create
	case ActionRead:
		return p.Read
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	}
	return false
}

// Matrix asocia cada entidad con sus permisos.
// Una matriz válida tiene exactamente las seis entidades.
type Matrix map[Entity]Permissions

// DefaultMatrix devuelve una matriz completa con permisos de solo lectura.
func DefaultMatrix() Matrix {
	m := make(Matrix, len(Entities))
	for _, e := range Entities {
		m[e] = DefaultPermissions()
	}
	return m
}

// Allows consulta la matriz. Entidad ausente o desconocida => false.
func (m Matrix) Allows(e Entity, a Action) bool {
	if m == nil || !e.IsValid() {
		return false
	}
	p, ok := m[e]
	if !ok {
		return false
	}
	return p.Allows(a)
}

// Clone copia la matriz.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate exige la forma completa: seis entidades conocidas y nada más.
func (m Matrix) Validate() error {
	if len(m) != len(Entities) {
		return fmt.Errorf("%w: expected %d entities, got %d", ErrInvalidMatrix, len(Entities), len(m))
	}
	for k := range m {
		if !k.IsValid() {
			return fmt.Errorf("%w: unknown entity %q", ErrInvalidMatrix, k)
		}
	}
	return nil
}

// ParseMatrix decodifica una matriz en JSON de forma estricta.
// Rechaza entidades o acciones desconocidas, faltantes, null o valores no booleanos.
func ParseMatrix(data []byte) (Matrix, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: matrix is required", ErrInvalidMatrix)
	}

	m := make(Matrix, len(Entities))
	for key, actions := range raw {
		e := Entity(key)
		if !e.IsValid() {
			return nil, fmt.Errorf("%w: unknown entity %q", ErrInvalidMatrix, key)
		}
		p, err := parsePermissions(e, actions)
		if err != nil {
			return nil, err
		}
		m[e] = p
	}

	if missing := m.missingEntities(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing entities %v", ErrInvalidMatrix, missing)
	}
	return m, nil
}

func parsePermissions(e Entity, actions map[string]json.RawMessage) (Permissions, error) {
	if actions == nil {
		return Permissions{}, fmt.Errorf("%w: %s must be an object", ErrInvalidMatrix, e)
	}
	var p Permissions
	seen := 0
	for key, v := range actions {
		a := Action(key)
		if !a.IsValid() {
			return Permissions{}, fmt.Errorf("%w: unknown action %s.%s", ErrInvalidMatrix, e, key)
		}
		v = bytes.TrimSpace(v)
		if bytes.Equal(v, []byte("null")) {
			return Permissions{}, fmt.Errorf("%w: %s.%s must be a boolean", ErrInvalidMatrix, e, key)
		}
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return Permissions{}, fmt.Errorf("%w: %s.%s must be a boolean", ErrInvalidMatrix, e, key)
		}
		switch a {
		case ActionCreate:
			p.Create = b
		case ActionRead:
			p.Read = b
		case ActionUpdate:
			p.Update = b
		case ActionDelete:
			p.Delete = b
		}
		seen++
	}
	if seen != len(Actions) {
		return Permissions{}, fmt.Errorf("%w: %s requires create, read, update and delete", ErrInvalidMatrix, e)
	}
	return p, nil
}

func (m Matrix) missingEntities() []string {
	var out []string
	for _, e := range Entities {
		if _, ok := m[e]; !ok {
			out = append(out, string(e))
		}
	}
	sort.Strings(out)
	return out
}
