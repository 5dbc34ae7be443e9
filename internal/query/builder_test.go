package query

import (
	"testing"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allResources = []permissions.Resource{
	permissions.ResourceProjects,
	permissions.ResourceTasks,
	permissions.ResourceScope,
	permissions.ResourceShopDrawings,
	permissions.ResourceMaterialSpecs,
	permissions.ResourceReports,
	permissions.ResourceClients,
	permissions.ResourceSuppliers,
	permissions.ResourceUsers,
}

func TestBuildScoping(t *testing.T) {
	t.Run("Success - non-management actor is scoped on every resource", func(t *testing.T) {
		actor := permissions.Actor{ID: uuid.New(), Role: permissions.RoleField, IsActive: true}

		for _, resource := range allResources {
			q, err := Build(resource, actor, Params{})
			require.NoError(t, err, "resource %s", resource)
			require.NotNil(t, q.Scope, "resource %s must carry a scope clause", resource)

			found := false
			for _, arg := range q.Scope.Args {
				if arg == actor.ID {
					found = true
					break
				}
			}
			assert.True(t, found, "scope for %s must reference the actor id", resource)
		}
	})

	t.Run("Success - management actor is unscoped", func(t *testing.T) {
		actor := permissions.Actor{ID: uuid.New(), Role: permissions.RoleAdmin, IsActive: true}

		for _, resource := range allResources {
			q, err := Build(resource, actor, Params{})
			require.NoError(t, err)
			assert.Nil(t, q.Scope, "resource %s", resource)
		}
	})

	t.Run("Success - every role outside management gets the scope clause", func(t *testing.T) {
		scoped := []permissions.Role{
			permissions.RoleProjectManager, permissions.RoleField, permissions.RoleProject,
			permissions.RoleExternal, permissions.RoleClient, permissions.RoleSubcontractor,
		}
		for _, role := range scoped {
			actor := permissions.Actor{ID: uuid.New(), Role: role, IsActive: true}
			q, err := Build(permissions.ResourceTasks, actor, Params{})
			require.NoError(t, err)
			assert.NotNil(t, q.Scope, "role %s", role)
		}
	})
}

func TestBuildPagination(t *testing.T) {
	actor := permissions.Actor{ID: uuid.New(), Role: permissions.RoleAdmin, IsActive: true}

	t.Run("Success - offset derives from page and limit", func(t *testing.T) {
		q, err := Build(permissions.ResourceProjects, actor, Params{Limit: 10, Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 10, q.Limit)
		assert.Equal(t, 10, q.Offset)
	})

	t.Run("Success - absent limit means no pagination clause", func(t *testing.T) {
		q, err := Build(permissions.ResourceProjects, actor, Params{Page: 3})
		require.NoError(t, err)
		assert.Equal(t, 0, q.Limit)
		assert.Equal(t, 0, q.Offset)
	})

	t.Run("Success - limit is capped", func(t *testing.T) {
		q, err := Build(permissions.ResourceProjects, actor, Params{Limit: 5000, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 100, q.Limit)
	})

	t.Run("Success - page below one is treated as the first page", func(t *testing.T) {
		q, err := Build(permissions.ResourceProjects, actor, Params{Limit: 20, Page: 0})
		require.NoError(t, err)
		assert.Equal(t, 0, q.Offset)
	})
}

func TestBuildSorting(t *testing.T) {
	actor := permissions.Actor{ID: uuid.New(), Role: permissions.RoleAdmin, IsActive: true}

	t.Run("Success - defaults to created_at DESC", func(t *testing.T) {
		q, err := Build(permissions.ResourceTasks, actor, Params{})
		require.NoError(t, err)
		assert.Equal(t, "created_at DESC", q.Sort)
	})

	t.Run("Success - explicit sort field and direction", func(t *testing.T) {
		q, err := Build(permissions.ResourceTasks, actor, Params{SortField: "due_date", SortDirection: "asc"})
		require.NoError(t, err)
		assert.Equal(t, "due_date ASC", q.Sort)
	})

	t.Run("Success - unknown direction falls back to DESC", func(t *testing.T) {
		q, err := Build(permissions.ResourceTasks, actor, Params{SortField: "title", SortDirection: "sideways"})
		require.NoError(t, err)
		assert.Equal(t, "title DESC", q.Sort)
	})

	t.Run("Error - unknown sort field is a configuration error", func(t *testing.T) {
		_, err := Build(permissions.ResourceTasks, actor, Params{SortField: "salary"})
		require.Error(t, err)
		var cfgErr *apperrors.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestBuildFilters(t *testing.T) {
	actor := permissions.Actor{ID: uuid.New(), Role: permissions.RoleAdmin, IsActive: true}

	t.Run("Success - search uses the per-resource field allowlist", func(t *testing.T) {
		q, err := Build(permissions.ResourceClients, actor, Params{Search: "acme"})
		require.NoError(t, err)
		require.NotNil(t, q.Search)
		assert.Equal(t, []string{"contact_person", "company_name", "email"}, q.Search.Fields)
		assert.Equal(t, "acme", q.Search.Term)
	})

	t.Run("Success - valid status filter becomes a where clause", func(t *testing.T) {
		q, err := Build(permissions.ResourceTasks, actor, Params{Status: "in_progress"})
		require.NoError(t, err)
		require.Len(t, q.Where, 1)
		assert.Equal(t, "status = ?", q.Where[0].Expr)
	})

	t.Run("Error - invalid status value", func(t *testing.T) {
		_, err := Build(permissions.ResourceTasks, actor, Params{Status: "procrastinating"})
		require.Error(t, err)
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Error - status filter on a resource without a status column", func(t *testing.T) {
		_, err := Build(permissions.ResourceClients, actor, Params{Status: "active"})
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Success - project filter on project-bound resources", func(t *testing.T) {
		projectID := uuid.New()
		q, err := Build(permissions.ResourceTasks, actor, Params{ProjectID: projectID.String()})
		require.NoError(t, err)
		require.Len(t, q.Where, 1)
		assert.Equal(t, "project_id = ?", q.Where[0].Expr)
	})

	t.Run("Error - malformed project id", func(t *testing.T) {
		_, err := Build(permissions.ResourceTasks, actor, Params{ProjectID: "not-a-uuid"})
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Error - malformed date range", func(t *testing.T) {
		_, err := Build(permissions.ResourceReports, actor, Params{FromDate: "23/08/2026"})
		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Error - unknown resource type is a configuration error", func(t *testing.T) {
		_, err := Build(permissions.Resource("inventory"), actor, Params{})
		require.Error(t, err)
		var cfgErr *apperrors.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
