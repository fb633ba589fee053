// Package policy is the permission matrix of the portal: one table keyed by
// (role, operation) whose value is the scope the role may act on. Services
// ask the table once per operation and then apply the returned scope; no
// service branches on roles directly.
package policy

import (
	"context"

	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// Operation names one guarded action.
type Operation string

const (
	OpCatalogRead           Operation = "catalog.read"
	OpCatalogWrite          Operation = "catalog.write"
	OpDepartmentWrite       Operation = "department.write"
	OpOfficialRead          Operation = "official.read"
	OpOfficialWrite         Operation = "official.write"
	OpCitizenRegister       Operation = "citizen.register"
	OpCitizenRead           Operation = "citizen.read"
	OpCitizenUpdate         Operation = "citizen.update"
	OpApplicationCreate     Operation = "application.create"
	OpApplicationRead       Operation = "application.read"
	OpApplicationTransition Operation = "application.transition"
	OpApplicationAssign     Operation = "application.assign"
	OpDocumentUpload        Operation = "document.upload"
	OpDashboardRead         Operation = "dashboard.read"
	OpStatsRead             Operation = "stats.read"
	OpUserManage            Operation = "user.manage"
	OpNotificationRead      Operation = "notification.read"
)

// Scope is how much of a collection an allowed actor reaches.
type Scope int

const (
	// ScopeNone denies the operation.
	ScopeNone Scope = iota
	// ScopeOwn limits the actor to records linked to their own user.
	ScopeOwn
	// ScopeActive limits the actor to published (active) catalog entries.
	ScopeActive
	// ScopeDepartment limits the actor to records of their Official
	// profile's department (plus, for applications, active assignments).
	ScopeDepartment
	// ScopeAll is unrestricted.
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeActive:
		return "active"
	case ScopeDepartment:
		return "department"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// RoleAnonymous is the role of a request without a bearer token.
const RoleAnonymous id.Role = ""

var table = map[id.Role]map[Operation]Scope{
	RoleAnonymous: {
		OpCatalogRead:     ScopeActive,
		OpCitizenRegister: ScopeAll,
	},
	id.RoleCitizen: {
		OpCatalogRead:       ScopeActive,
		OpCitizenRead:       ScopeOwn,
		OpCitizenUpdate:     ScopeOwn,
		OpApplicationCreate: ScopeOwn,
		OpApplicationRead:   ScopeOwn,
		OpDocumentUpload:    ScopeOwn,
		OpDashboardRead:     ScopeOwn,
		OpNotificationRead:  ScopeOwn,
	},
	id.RoleOfficial: {
		OpCatalogRead:           ScopeDepartment,
		OpCatalogWrite:          ScopeDepartment,
		OpOfficialRead:          ScopeDepartment,
		OpApplicationRead:       ScopeDepartment,
		OpApplicationTransition: ScopeDepartment,
		OpApplicationAssign:     ScopeDepartment,
		OpDashboardRead:         ScopeDepartment,
		OpNotificationRead:      ScopeOwn,
	},
	id.RoleAdministrator: {
		OpCatalogRead:           ScopeAll,
		OpCatalogWrite:          ScopeAll,
		OpDepartmentWrite:       ScopeAll,
		OpOfficialRead:          ScopeAll,
		OpOfficialWrite:         ScopeAll,
		OpCitizenRegister:       ScopeAll,
		OpCitizenRead:           ScopeAll,
		OpCitizenUpdate:         ScopeAll,
		OpApplicationRead:       ScopeAll,
		OpApplicationTransition: ScopeAll,
		OpApplicationAssign:     ScopeAll,
		OpDocumentUpload:        ScopeAll,
		OpDashboardRead:         ScopeAll,
		OpStatsRead:             ScopeAll,
		OpUserManage:            ScopeAll,
		OpNotificationRead:      ScopeOwn,
	},
}

// ScopeFor is the pure table lookup. Unknown roles and operations map to
// ScopeNone.
func ScopeFor(role id.Role, op Operation) Scope {
	return table[role][op]
}

// Allowed reports whether role may perform op at all.
func Allowed(role id.Role, op Operation) bool {
	return ScopeFor(role, op) != ScopeNone
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID id.UserID
	Role   id.Role
}

// ActorFromContext reads the identity placed by the auth middleware. Requests
// without one resolve to the anonymous actor.
func ActorFromContext(ctx context.Context) Actor {
	return Actor{UserID: requestcontext.UserID(ctx), Role: requestcontext.Role(ctx)}
}

// Authorize returns the actor's scope for op, or a forbidden error.
func Authorize(actor Actor, op Operation) (Scope, error) {
	scope := ScopeFor(actor.Role, op)
	if scope == ScopeNone {
		return ScopeNone, dErrors.New(dErrors.CodeForbidden, "no tienes permiso para realizar esta acción")
	}
	return scope, nil
}

// AuthorizeDepartmentWrite checks a write against a department-owned record.
// own is the actor's Official department, nil when the actor has no profile.
func AuthorizeDepartmentWrite(scope Scope, own *id.DepartmentID, target id.DepartmentID) error {
	switch scope {
	case ScopeAll:
		return nil
	case ScopeDepartment:
		if own == nil {
			return dErrors.New(dErrors.CodeForbidden, "el usuario no tiene un perfil de funcionario")
		}
		if *own != target {
			return dErrors.New(dErrors.CodeForbidden, "solo puedes modificar registros de tu dependencia")
		}
		return nil
	default:
		return dErrors.New(dErrors.CodeForbidden, "no tienes permiso para realizar esta acción")
	}
}
