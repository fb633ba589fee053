package policy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// TestPermissionMatrix pins the full matrix so any change to it is reviewed
// as a change to this table.
func TestPermissionMatrix(t *testing.T) {
	c, o, a := id.RoleCitizen, id.RoleOfficial, id.RoleAdministrator
	expect := map[Operation]map[id.Role]Scope{
		OpCatalogRead:           {RoleAnonymous: ScopeActive, c: ScopeActive, o: ScopeDepartment, a: ScopeAll},
		OpCatalogWrite:          {c: ScopeNone, o: ScopeDepartment, a: ScopeAll},
		OpDepartmentWrite:       {c: ScopeNone, o: ScopeNone, a: ScopeAll},
		OpCitizenRegister:       {RoleAnonymous: ScopeAll, c: ScopeNone, o: ScopeNone, a: ScopeAll},
		OpCitizenUpdate:         {c: ScopeOwn, o: ScopeNone, a: ScopeAll},
		OpApplicationCreate:     {c: ScopeOwn, o: ScopeNone, a: ScopeNone},
		OpApplicationRead:       {c: ScopeOwn, o: ScopeDepartment, a: ScopeAll},
		OpApplicationTransition: {RoleAnonymous: ScopeNone, c: ScopeNone, o: ScopeDepartment, a: ScopeAll},
		OpApplicationAssign:     {c: ScopeNone, o: ScopeDepartment, a: ScopeAll},
		OpDocumentUpload:        {c: ScopeOwn, o: ScopeNone, a: ScopeAll},
		OpStatsRead:             {c: ScopeNone, o: ScopeNone, a: ScopeAll},
		OpUserManage:            {c: ScopeNone, o: ScopeNone, a: ScopeAll},
		OpNotificationRead:      {c: ScopeOwn, o: ScopeOwn, a: ScopeOwn},
	}

	for op, byRole := range expect {
		for role, want := range byRole {
			assert.Equal(t, want, ScopeFor(role, op), "%s as %q", op, role)
		}
	}
}

func TestUnknownRoleIsDenied(t *testing.T) {
	assert.False(t, Allowed(id.Role("ROOT"), OpCatalogRead))
	assert.False(t, Allowed(id.RoleAdministrator, Operation("nuke")))
}

func TestAuthorize(t *testing.T) {
	_, err := Authorize(Actor{Role: id.RoleCitizen}, OpApplicationTransition)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	scope, err := Authorize(Actor{Role: id.RoleOfficial}, OpApplicationTransition)
	require.NoError(t, err)
	assert.Equal(t, ScopeDepartment, scope)
}

func TestAuthorizeDepartmentWrite(t *testing.T) {
	d1 := id.DepartmentID(uuid.New())
	d2 := id.DepartmentID(uuid.New())

	assert.NoError(t, AuthorizeDepartmentWrite(ScopeAll, nil, d2))
	assert.NoError(t, AuthorizeDepartmentWrite(ScopeDepartment, &d1, d1))

	err := AuthorizeDepartmentWrite(ScopeDepartment, &d1, d2)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	err = AuthorizeDepartmentWrite(ScopeDepartment, nil, d1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	err = AuthorizeDepartmentWrite(ScopeActive, nil, d1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestActorFromContext(t *testing.T) {
	userID := id.UserID(uuid.New())
	ctx := requestcontext.WithRole(requestcontext.WithUserID(context.Background(), userID), id.RoleOfficial)

	actor := ActorFromContext(ctx)
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, id.RoleOfficial, actor.Role)

	anon := ActorFromContext(context.Background())
	assert.Equal(t, RoleAnonymous, anon.Role)
	assert.True(t, anon.UserID.IsNil())
}
