package query

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
)

// Params are the raw list parameters as they arrive on the wire. Zero values
// mean "not provided".
type Params struct {
	Search        string
	Status        string
	ProjectID     string
	FromDate      string
	ToDate        string
	SortField     string
	SortDirection string
	Limit         int
	Page          int
}

// Clause is a SQL fragment with its bind arguments.
type Clause struct {
	Expr string
	Args []interface{}
}

// SearchClause is a case-insensitive substring match OR-ed across the
// resource's search field allowlist. The store picks the operator for the
// active dialect.
type SearchClause struct {
	Fields []string
	Term   string
}

// Query is the immutable, fully scoped instruction set handed to the store.
// The store must execute it literally; every authorization decision has
// already been made here.
type Query struct {
	Resource permissions.Resource
	Table    string
	Scope    *Clause
	Search   *SearchClause
	Where    []Clause
	Sort     string
	Limit    int
	Offset   int
}

// maxLimit bounds a single page regardless of what the caller asks for.
const maxLimit = 100

type resourceSpec struct {
	table        string
	searchFields []string
	sortFields   map[string]bool
	statuses     map[string]bool
	dateColumn   string
	hasProjectID bool
	scope        func(actorID uuid.UUID) Clause
}

// memberProjects matches projects the actor belongs to via assignment.
const memberProjects = "(SELECT project_id FROM project_assignments WHERE user_id = ? AND deleted_at IS NULL)"

var resourceSpecs = map[permissions.Resource]resourceSpec{
	permissions.ResourceProjects: {
		table:        "projects",
		searchFields: []string{"name", "code", "description"},
		sortFields:   sortSet("created_at", "updated_at", "name", "code", "status", "start_date", "end_date", "budget"),
		statuses:     statusSet(models.AllProjectStatuses()),
		dateColumn:   "created_at",
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "project_manager_id = ? OR created_by = ? OR id IN " + memberProjects,
				Args: []interface{}{id, id, id},
			}
		},
	},
	permissions.ResourceTasks: {
		table:        "tasks",
		searchFields: []string{"title", "description"},
		sortFields:   sortSet("created_at", "updated_at", "title", "status", "priority", "due_date"),
		statuses:     statusSet(models.AllTaskStatuses()),
		dateColumn:   "due_date",
		hasProjectID: true,
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "assigned_to = ? OR created_by = ? OR project_id IN " + memberProjects,
				Args: []interface{}{id, id, id},
			}
		},
	},
	permissions.ResourceScope: {
		table:        "scope_items",
		// item_no is numeric; cast so the LIKE works on both dialects.
		searchFields: []string{"CAST(item_no AS TEXT)", "description", "category"},
		sortFields:   sortSet("created_at", "updated_at", "item_no", "category", "status", "total_price"),
		statuses:     statusSet(models.AllTaskStatuses()),
		dateColumn:   "created_at",
		hasProjectID: true,
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "assigned_to = ? OR created_by = ? OR project_id IN " + memberProjects,
				Args: []interface{}{id, id, id},
			}
		},
	},
	permissions.ResourceShopDrawings: {
		table:        "shop_drawings",
		searchFields: []string{"drawing_number", "title", "discipline"},
		sortFields:   sortSet("created_at", "updated_at", "drawing_number", "title", "status", "revision"),
		statuses:     statusSet(models.AllDrawingStatuses()),
		dateColumn:   "created_at",
		hasProjectID: true,
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "created_by = ? OR assigned_to = ? OR project_id IN " + memberProjects,
				Args: []interface{}{id, id, id},
			}
		},
	},
	permissions.ResourceMaterialSpecs: {
		table:        "material_specs",
		searchFields: []string{"name", "category", "manufacturer", "model"},
		sortFields:   sortSet("created_at", "updated_at", "name", "category", "status", "unit_cost"),
		statuses:     statusSet(models.AllMaterialStatuses()),
		dateColumn:   "created_at",
		hasProjectID: true,
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "created_by = ? OR project_id IN " + memberProjects,
				Args: []interface{}{id, id},
			}
		},
	},
	permissions.ResourceReports: {
		table:        "reports",
		searchFields: []string{"title", "summary"},
		sortFields:   sortSet("created_at", "updated_at", "title", "type", "status", "report_date"),
		statuses:     statusSet(models.AllReportStatuses()),
		dateColumn:   "report_date",
		hasProjectID: true,
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "created_by = ? OR project_id IN " + memberProjects,
				Args: []interface{}{id, id},
			}
		},
	},
	permissions.ResourceClients: {
		table:        "clients",
		searchFields: []string{"contact_person", "company_name", "email"},
		sortFields:   sortSet("created_at", "updated_at", "company_name", "contact_person", "city"),
		dateColumn:   "created_at",
		scope: func(id uuid.UUID) Clause {
			return Clause{
				Expr: "created_by = ? OR id IN (SELECT client_id FROM projects WHERE client_id IS NOT NULL AND deleted_at IS NULL AND (project_manager_id = ? OR created_by = ? OR id IN " + memberProjects + "))",
				Args: []interface{}{id, id, id, id},
			}
		},
	},
	permissions.ResourceSuppliers: {
		table:        "suppliers",
		searchFields: []string{"name", "contact_person", "email", "specialty"},
		sortFields:   sortSet("created_at", "updated_at", "name", "specialty", "total_payments"),
		dateColumn:   "created_at",
		scope: func(id uuid.UUID) Clause {
			return Clause{Expr: "created_by = ?", Args: []interface{}{id}}
		},
	},
	permissions.ResourceUsers: {
		table:        "user_profiles",
		searchFields: []string{"first_name", "last_name", "email"},
		sortFields:   sortSet("created_at", "first_name", "last_name", "email", "role"),
		dateColumn:   "created_at",
		scope: func(id uuid.UUID) Clause {
			// Self plus anyone sharing a project assignment.
			return Clause{
				Expr: "id = ? OR id IN (SELECT user_id FROM project_assignments WHERE deleted_at IS NULL AND project_id IN " + memberProjects + ")",
				Args: []interface{}{id, id},
			}
		},
	},
}

// Build translates raw request parameters into a scoped Query. Non-management
// actors always get an ownership/assignment scope clause; an unscoped query
// for them is a defect, not an option.
func Build(resource permissions.Resource, actor permissions.Actor, params Params) (*Query, error) {
	spec, ok := resourceSpecs[resource]
	if !ok {
		return nil, apperrors.Configuration("query builder: unknown resource type %q", resource)
	}

	q := &Query{
		Resource: resource,
		Table:    spec.table,
	}

	if !permissions.IsManagement(actor) {
		scope := spec.scope(actor.ID)
		q.Scope = &scope
	}

	if term := strings.TrimSpace(params.Search); term != "" {
		q.Search = &SearchClause{Fields: spec.searchFields, Term: term}
	}

	if params.Status != "" {
		if spec.statuses == nil {
			return nil, apperrors.Validation("status", "This resource cannot be filtered by status")
		}
		if !spec.statuses[params.Status] {
			return nil, apperrors.Validation("status", "Invalid status value: "+params.Status)
		}
		q.Where = append(q.Where, Clause{Expr: "status = ?", Args: []interface{}{params.Status}})
	}

	if params.ProjectID != "" {
		if !spec.hasProjectID {
			return nil, apperrors.Validation("project_id", "This resource cannot be filtered by project")
		}
		projectID, err := uuid.Parse(params.ProjectID)
		if err != nil {
			return nil, apperrors.Validation("project_id", "Expected a valid UUID")
		}
		q.Where = append(q.Where, Clause{Expr: "project_id = ?", Args: []interface{}{projectID}})
	}

	if err := applyDateRange(q, spec.dateColumn, params.FromDate, params.ToDate); err != nil {
		return nil, err
	}

	sort, err := resolveSort(spec, params.SortField, params.SortDirection)
	if err != nil {
		return nil, err
	}
	q.Sort = sort

	applyPagination(q, params.Limit, params.Page)

	return q, nil
}

func applyDateRange(q *Query, column, from, to string) error {
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return apperrors.Validation("from_date", "Date must be YYYY-MM-DD")
		}
		q.Where = append(q.Where, Clause{Expr: column + " >= ?", Args: []interface{}{t}})
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return apperrors.Validation("to_date", "Date must be YYYY-MM-DD")
		}
		// Inclusive end of day.
		q.Where = append(q.Where, Clause{Expr: column + " < ?", Args: []interface{}{t.AddDate(0, 0, 1)}})
	}
	return nil
}

func resolveSort(spec resourceSpec, field, direction string) (string, error) {
	if field == "" {
		return "created_at DESC", nil
	}
	if !spec.sortFields[field] {
		return "", apperrors.Configuration("query builder: unknown sort field %q for table %s", field, spec.table)
	}

	dir := "DESC"
	if strings.EqualFold(direction, "asc") {
		dir = "ASC"
	}
	return field + " " + dir, nil
}

// applyPagination computes offset = (page-1)*limit. A missing limit means no
// pagination clause at all; the store's own bounds are the only cap then.
func applyPagination(q *Query, limit, page int) {
	if limit <= 0 {
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	q.Limit = limit
	q.Offset = (page - 1) * limit
}

func sortSet(fields ...string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func statusSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
