package types

// Caller es la identidad verificada de quien hace el request.
// Se construye únicamente a partir de un access token válido; Matrix solo
// se completa para STAFF, después de resolver su rol dentro del tenant.
type Caller struct {
	AccountID string
	TenantID  int64
	Role      CoarseRole
	Email     string

	// RoleID y Matrix vienen del rol custom (solo STAFF).
	RoleID   string
	RoleName string
	Matrix   Matrix
}

// IsOwner retorna true si el caller es dueño de la organización.
func (c Caller) IsOwner() bool { return c.Role == RoleOwner }

// Scope devuelve el scope de tenant derivado de la identidad verificada.
func (c Caller) Scope() Scope { return Scope{tenantID: c.TenantID} }

// Scope restringe una operación de store a un único tenant.
// No se puede construir desde input del cliente: el campo es privado y
// solo Caller.Scope y NewScope lo inicializan.
type Scope struct {
	tenantID int64
}

// NewScope crea un scope explícito. Usado por el alta de organizaciones,
// donde todavía no existe un caller, y por tests.
func NewScope(tenantID int64) Scope { return Scope{tenantID: tenantID} }

// TenantID del scope.
func (s Scope) TenantID() int64 { return s.tenantID }

// IsZero indica un scope sin tenant. Los stores lo rechazan.
func (s Scope) IsZero() bool { return s.tenantID <= 0 }
