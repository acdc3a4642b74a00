package domain

// Principal identifies the acting caller of a use case.
type Principal struct {
	ID   string
	Role string
}

// Actions evaluated by Authorize. Use cases check capabilities explicitly
// instead of relying on per-route role conditionals.
const (
	ActionApproveSacco      = "sacco.approve"
	ActionSuspendSacco      = "sacco.suspend"
	ActionDeleteSacco       = "sacco.delete"
	ActionProcessWithdrawal = "withdrawal.process"
	ActionDecideLoan        = "loan.decide"
	ActionDisburseLoan      = "loan.disburse"
	ActionViewAuditLogs     = "audit.view"
	ActionManageUsers       = "users.manage"
)

// Roles mirrored from the persistence layer so policy checks do not
// depend on it.
const (
	RoleSuperAdmin  = "SuperAdmin"
	RoleChairperson = "Chairperson"
	RoleMember      = "Member"
	RoleTreasurer   = "Treasurer"
	RoleSecretary   = "Secretary"
)

// SaccoResource carries the ownership facts Authorize needs about a SACCO.
type SaccoResource struct {
	ID            string
	ChairpersonID *string
}

// Authorize reports whether the principal may perform action on the given
// resource. A nil resource means the action is not scoped to a SACCO.
//
// SuperAdmin is unscoped. A Chairperson is scoped to the SACCO whose
// chairperson_id equals their user id; a Chairperson of a different SACCO
// is treated the same as any other unprivileged caller.
func Authorize(p Principal, action string, resource *SaccoResource) bool {
	if p.Role == RoleSuperAdmin {
		return true
	}

	switch action {
	case ActionProcessWithdrawal, ActionDecideLoan, ActionDisburseLoan:
		if p.Role != RoleChairperson || resource == nil {
			return false
		}
		return resource.ChairpersonID != nil && *resource.ChairpersonID == p.ID
	case ActionApproveSacco, ActionSuspendSacco, ActionDeleteSacco,
		ActionViewAuditLogs, ActionManageUsers:
		// SuperAdmin only
		return false
	}

	return false
}
