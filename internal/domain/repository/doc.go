// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente. Las implementaciones viven en internal/store/memory
// e internal/store/pg.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│        Services (auth, admin, lab)                  │
//	└─────────────────────────────────────────────────────┘
//	                        │  types.Scope (del caller verificado)
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  AccountRepository, RoleRepository, ...             │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	              ┌─────────┴─────────┐
//	              ▼                   ▼
//	       ┌─────────────┐     ┌─────────────┐
//	       │ store/memory│     │  store/pg   │
//	       └─────────────┘     └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Todo método alcanzable por un caller autenticado recibe types.Scope;
//     un scope vacío se rechaza con ErrInvalidInput
//   - Un id existente pero de otro tenant se reporta como ErrNotFound
//   - Errores de dominio están en errors.go
package repository
