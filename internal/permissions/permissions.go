package permissions

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleGeneralManager Role = "general_manager"
	RoleCompanyOwner   Role = "company_owner"
	RoleField          Role = "field"
	RoleProject        Role = "project"
	RoleExternal       Role = "external"
	RoleClient         Role = "client"
	RoleSubcontractor  Role = "subcontractor"
)

type Resource string
type Action string

const (
	ResourceProjects      Resource = "projects"
	ResourceTasks         Resource = "tasks"
	ResourceScope         Resource = "scope"
	ResourceShopDrawings  Resource = "shop_drawings"
	ResourceMaterialSpecs Resource = "material_specs"
	ResourceReports       Resource = "reports"
	ResourceClients       Resource = "clients"
	ResourceSuppliers     Resource = "suppliers"
	ResourceUsers         Resource = "users"
	ResourceDashboard     Resource = "dashboard"

	ActionView         Action = "view"
	ActionCreate       Action = "create"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
	ActionChangeStatus Action = "change_status"
	ActionApprove      Action = "approve"
	ActionExport       Action = "export"
)

// Actor is the authenticated caller as handed over by the auth provider.
// This layer never re-derives identity; it only evaluates grants.
type Actor struct {
	ID       uuid.UUID
	Role     Role
	IsActive bool
}

// ManagementRoles see every row of every resource; everyone else gets
// ownership/assignment scoping in the query builder.
var ManagementRoles = []Role{RoleAdmin, RoleCompanyOwner, RoleGeneralManager}

// rolePermissions lists every grant per non-management role. Management roles
// bypass the table entirely. Grants are a pure function of role; there are no
// per-user overrides.
var rolePermissions = map[Role][]string{
	RoleProjectManager: {
		"projects.view", "projects.create", "projects.edit", "projects.change_status",
		"tasks.view", "tasks.create", "tasks.edit", "tasks.delete", "tasks.change_status",
		"scope.view", "scope.create", "scope.edit", "scope.delete", "scope.change_status", "scope.export",
		"shop_drawings.view", "shop_drawings.create", "shop_drawings.edit", "shop_drawings.change_status", "shop_drawings.approve",
		"material_specs.view", "material_specs.create", "material_specs.edit", "material_specs.change_status", "material_specs.approve",
		"reports.view", "reports.create", "reports.edit", "reports.change_status",
		"clients.view", "clients.create", "clients.edit",
		"suppliers.view", "suppliers.create", "suppliers.edit",
		"users.view",
		"dashboard.view",
	},
	RoleField: {
		"projects.view",
		"tasks.view", "tasks.edit", "tasks.change_status",
		"scope.view", "scope.edit", "scope.change_status",
		"shop_drawings.view", "shop_drawings.create", "shop_drawings.edit", "shop_drawings.change_status",
		"material_specs.view",
		"reports.view", "reports.create", "reports.edit",
		"users.view",
		"dashboard.view",
	},
	RoleProject: {
		"projects.view", "projects.edit",
		"tasks.view", "tasks.create", "tasks.edit", "tasks.change_status",
		"scope.view", "scope.export",
		"shop_drawings.view",
		"material_specs.view",
		"reports.view", "reports.create",
		"users.view",
		"dashboard.view",
	},
	RoleExternal: {
		"projects.view",
		"shop_drawings.view", "shop_drawings.change_status",
		"reports.view",
		"dashboard.view",
	},
	RoleClient: {
		"projects.view",
		"shop_drawings.view", "shop_drawings.approve",
		"reports.view",
		"dashboard.view",
	},
	RoleSubcontractor: {
		"projects.view",
		"tasks.view", "tasks.change_status",
		"scope.view", "scope.edit", "scope.change_status",
		"shop_drawings.view", "shop_drawings.create",
		"reports.view", "reports.create",
		"dashboard.view",
	},
}

// Key builds the permission key for a resource/action pair.
func Key(resource Resource, action Action) string {
	return string(resource) + "." + string(action)
}

// HasPermission reports whether the actor holds the given grant. Deactivated
// actors fail every check, whatever their role. Unknown roles hold nothing.
func HasPermission(actor Actor, permissionKey string) bool {
	if !actor.IsActive {
		return false
	}

	if isManagementRole(actor.Role) {
		return true
	}

	grants, ok := rolePermissions[actor.Role]
	if !ok {
		return false
	}

	for _, key := range grants {
		if key == permissionKey {
			return true
		}
	}
	return false
}

// CanAccess reports whether the actor's role is one of the given roles.
func CanAccess(actor Actor, roles []Role) bool {
	if !actor.IsActive {
		return false
	}

	for _, role := range roles {
		if actor.Role == role {
			return true
		}
	}
	return false
}

func IsManagement(actor Actor) bool {
	return CanAccess(actor, ManagementRoles)
}

func CanCreateProject(actor Actor) bool {
	return IsManagement(actor) || CanAccess(actor, []Role{RoleProjectManager})
}

func CanAssignTasks(actor Actor) bool {
	return IsManagement(actor) || CanAccess(actor, []Role{RoleProjectManager, RoleProject})
}

func CanApproveDrawings(actor Actor) bool {
	return HasPermission(actor, Key(ResourceShopDrawings, ActionApprove))
}

func CanApproveMaterialSpecs(actor Actor) bool {
	return HasPermission(actor, Key(ResourceMaterialSpecs, ActionApprove))
}

func CanExportScope(actor Actor) bool {
	return HasPermission(actor, Key(ResourceScope, ActionExport))
}

func isManagementRole(role Role) bool {
	for _, r := range ManagementRoles {
		if r == role {
			return true
		}
	}
	return false
}
