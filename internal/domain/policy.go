package domain

// PolicyRule is one (role, resource, action) grant fed to the casbin
// enforcer. Route middleware checks these coarse grants; record-level rules
// (assignment, division, status) stay in the Actor capability methods.
type PolicyRule struct {
	Role     Role
	Resource string
	Action   string
}

// PolicyRules is the full route-level capability table. It is static because
// the role set is closed; there is no per-tenant policy storage.
func PolicyRules() []PolicyRule {
	everyone := []Role{RoleStaff, RoleDivisionCC, RoleDivisionalHead, RoleHOD, RoleAdmin}
	recommenders := []Role{RoleDivisionCC, RoleDivisionalHead, RoleHOD, RoleAdmin}
	approvers := []Role{RoleDivisionalHead, RoleHOD, RoleAdmin}
	directoryReaders := []Role{RoleDivisionCC, RoleDivisionalHead, RoleHOD, RoleAdmin}
	admins := []Role{RoleAdmin}

	var rules []PolicyRule
	grant := func(roles []Role, resource, action string) {
		for _, r := range roles {
			rules = append(rules, PolicyRule{Role: r, Resource: resource, Action: action})
		}
	}

	grant(everyone, "leave", "create")
	grant(everyone, "leave", "read")
	grant(recommenders, "leave", "recommend")
	grant(approvers, "leave", "approve")
	grant(approvers, "leave", "download")

	grant(everyone, "program", "save")
	grant(everyone, "program", "read")
	grant(recommenders, "program", "decide")

	grant(directoryReaders, "directory", "read")
	grant(admins, "directory", "manage")
	grant(admins, "division", "manage")
	grant(everyone, "division", "read")
	grant(everyone, "notification", "read")

	return rules
}
