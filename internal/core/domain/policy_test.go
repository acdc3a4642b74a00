package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeSuperAdmin(t *testing.T) {
	p := Principal{ID: "admin-1", Role: RoleSuperAdmin}

	for _, action := range []string{
		ActionApproveSacco, ActionSuspendSacco, ActionDeleteSacco,
		ActionProcessWithdrawal, ActionDecideLoan, ActionDisburseLoan,
		ActionViewAuditLogs, ActionManageUsers,
	} {
		assert.True(t, Authorize(p, action, nil), "SuperAdmin should be allowed %s", action)
	}
}

func TestAuthorizeChairpersonScoping(t *testing.T) {
	chairID := "chair-1"
	otherID := "chair-2"

	own := &SaccoResource{ID: "sacco-1", ChairpersonID: &chairID}
	foreign := &SaccoResource{ID: "sacco-2", ChairpersonID: &otherID}
	unowned := &SaccoResource{ID: "sacco-3"}

	p := Principal{ID: chairID, Role: RoleChairperson}

	assert.True(t, Authorize(p, ActionProcessWithdrawal, own))
	assert.False(t, Authorize(p, ActionProcessWithdrawal, foreign))
	assert.False(t, Authorize(p, ActionProcessWithdrawal, unowned))
	assert.False(t, Authorize(p, ActionProcessWithdrawal, nil))

	// Registry-level actions stay SuperAdmin only, own SACCO or not
	assert.False(t, Authorize(p, ActionApproveSacco, own))
	assert.False(t, Authorize(p, ActionDeleteSacco, own))
	assert.False(t, Authorize(p, ActionViewAuditLogs, nil))
}

func TestAuthorizeUnprivilegedRoles(t *testing.T) {
	chairID := "chair-1"
	resource := &SaccoResource{ID: "sacco-1", ChairpersonID: &chairID}

	for _, role := range []string{RoleMember, RoleTreasurer, RoleSecretary} {
		p := Principal{ID: "user-1", Role: role}
		assert.False(t, Authorize(p, ActionProcessWithdrawal, resource), "%s must not process withdrawals", role)
		assert.False(t, Authorize(p, ActionDecideLoan, resource))
		assert.False(t, Authorize(p, ActionManageUsers, nil))
	}
}
