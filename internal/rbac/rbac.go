// Package rbac holds the static role-to-permission matrix used outside the
// workflow engine: report visibility, master-data management, and the
// coarse-grained gates on CRUD endpoints. Workflow legality itself is decided
// by the transition table, not by this matrix.
package rbac

import (
	"github.com/hydrocodeir/Sazegari/internal/domain"
)

// Permission is a coarse capability granted to a role.
type Permission string

const (
	ReportsCreate       Permission = "reports.create"
	ReportsViewAll      Permission = "reports.view_all"
	ReportsViewOrg      Permission = "reports.view_org"
	ReportsViewCounty   Permission = "reports.view_county"
	ReportsViewQueueOwn Permission = "reports.view_queue_own"

	MasterdataManage Permission = "masterdata.manage"
	AuditViewAll     Permission = "audit.view_all"
)

// rolePermissions is the full matrix. Load-once, never mutated.
var rolePermissions = map[domain.Role]map[Permission]struct{}{
	domain.RoleCountyExpert: permSet(
		ReportsCreate,
		ReportsViewCounty,
		ReportsViewQueueOwn,
	),
	domain.RoleCountyManager: permSet(
		ReportsViewCounty,
		ReportsViewQueueOwn,
	),
	domain.RoleProvinceExpert: permSet(
		ReportsCreate,
		ReportsViewOrg,
		ReportsViewQueueOwn,
	),
	domain.RoleProvinceManager: permSet(
		ReportsViewOrg,
		ReportsViewQueueOwn,
	),
	domain.RoleSecretariatUser: permSet(
		ReportsViewAll,
		ReportsViewOrg,
		ReportsViewCounty,
		ReportsViewQueueOwn,
		AuditViewAll,
	),
	domain.RoleSecretariatAdmin: permSet(
		ReportsViewAll,
		ReportsViewOrg,
		ReportsViewCounty,
		ReportsViewQueueOwn,
		MasterdataManage,
		AuditViewAll,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the role holds the permission.
func Has(role domain.Role, perm Permission) bool {
	_, ok := rolePermissions[role][perm]
	return ok
}

// CanViewReport is the report visibility ladder: view_all sees everything,
// view_org the actor's own org, view_county the actor's own county, and
// view_queue_own the reports parked in the actor's own needs_revision state
// within the actor's org. The last rung is what lets a county expert open a
// bounced provincial report, which carries no county.
func CanViewReport(u *domain.User, r *domain.Report) bool {
	if Has(u.Role, ReportsViewAll) {
		return true
	}
	if Has(u.Role, ReportsViewOrg) && u.OrgID != nil && *u.OrgID == r.OrgID {
		return true
	}
	if Has(u.Role, ReportsViewCounty) &&
		u.OrgID != nil && *u.OrgID == r.OrgID &&
		r.CountyID != nil && u.CountyID != nil && *u.CountyID == *r.CountyID {
		return true
	}
	if Has(u.Role, ReportsViewQueueOwn) &&
		u.OrgID != nil && *u.OrgID == r.OrgID &&
		r.State != "" && r.State == domain.NeedsRevisionState(u.Role) {
		return true
	}
	return false
}

// CanCreateReport gates report creation; the workflow table additionally
// requires the creator to be the chain's entry role for the kind.
func CanCreateReport(role domain.Role) bool {
	return Has(role, ReportsCreate)
}

// CanManageMasterdata gates org, county and user administration.
func CanManageMasterdata(role domain.Role) bool {
	return Has(role, MasterdataManage)
}
