package dashboard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/keramy/formulapmv2-sub001/internal/store"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
)

// Every widget runs the same scoped queries the list endpoints run. There is
// no separate stats store; what the dashboard counts is exactly what the
// actor could page through.

type ProjectCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	OnHold    int64 `json:"on_hold"`
	Completed int64 `json:"completed"`
}

type TaskCounts struct {
	Total      int64 `json:"total"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

type DrawingCounts struct {
	Total          int64 `json:"total"`
	AwaitingReview int64 `json:"awaiting_review"`
}

type MaterialCounts struct {
	Total           int64 `json:"total"`
	PendingApproval int64 `json:"pending_approval"`
}

type ReportCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

type Stats struct {
	Projects      ProjectCounts  `json:"projects"`
	Tasks         TaskCounts     `json:"tasks"`
	ScopeItems    int64          `json:"scope_items"`
	ShopDrawings  DrawingCounts  `json:"shop_drawings"`
	MaterialSpecs MaterialCounts `json:"material_specs"`
	Reports       ReportCounts   `json:"reports"`
}

// taskOpenStatuses are the states a task can still be worked in; overdue and
// alert queries ignore everything terminal.
var taskOpenStatuses = []string{
	string(models.TaskNotStarted), string(models.TaskInProgress),
	string(models.TaskBlocked), string(models.TaskOnHold),
}

func scopedCount(resource permissions.Resource, actor permissions.Actor, params query.Params, model interface{}) (int64, error) {
	q, err := query.Build(resource, actor, params)
	if err != nil {
		return 0, err
	}
	return store.Count(q, model)
}

// canView gates each widget source on the same grant the list endpoint checks.
// A role without tasks.view gets zero task numbers, not a side door.
func canView(actor permissions.Actor, resource permissions.Resource) bool {
	return permissions.HasPermission(actor, permissions.Key(resource, permissions.ActionView))
}

func GetStats(actor permissions.Actor) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dest     *int64
		resource permissions.Resource
		params   query.Params
		model    interface{}
	}{
		{&stats.Projects.Total, permissions.ResourceProjects, query.Params{}, &models.Project{}},
		{&stats.Projects.Active, permissions.ResourceProjects, query.Params{Status: string(models.ProjectActive)}, &models.Project{}},
		{&stats.Projects.OnHold, permissions.ResourceProjects, query.Params{Status: string(models.ProjectOnHold)}, &models.Project{}},
		{&stats.Projects.Completed, permissions.ResourceProjects, query.Params{Status: string(models.ProjectCompleted)}, &models.Project{}},
		{&stats.Tasks.Total, permissions.ResourceTasks, query.Params{}, &models.Task{}},
		{&stats.Tasks.InProgress, permissions.ResourceTasks, query.Params{Status: string(models.TaskInProgress)}, &models.Task{}},
		{&stats.Tasks.Completed, permissions.ResourceTasks, query.Params{Status: string(models.TaskCompleted)}, &models.Task{}},
		{&stats.ScopeItems, permissions.ResourceScope, query.Params{}, &models.ScopeItem{}},
		{&stats.ShopDrawings.Total, permissions.ResourceShopDrawings, query.Params{}, &models.ShopDrawing{}},
		{&stats.ShopDrawings.AwaitingReview, permissions.ResourceShopDrawings, query.Params{Status: string(models.DrawingUnderReview)}, &models.ShopDrawing{}},
		{&stats.MaterialSpecs.Total, permissions.ResourceMaterialSpecs, query.Params{}, &models.MaterialSpec{}},
		{&stats.MaterialSpecs.PendingApproval, permissions.ResourceMaterialSpecs, query.Params{Status: string(models.MaterialPendingApproval)}, &models.MaterialSpec{}},
		{&stats.Reports.Total, permissions.ResourceReports, query.Params{}, &models.Report{}},
		{&stats.Reports.Published, permissions.ResourceReports, query.Params{Status: string(models.ReportPublished)}, &models.Report{}},
	}

	for _, c := range counts {
		if !canView(actor, c.resource) {
			continue
		}
		n, err := scopedCount(c.resource, actor, c.params, c.model)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	if canView(actor, permissions.ResourceTasks) {
		overdue, err := countOverdueTasks(actor)
		if err != nil {
			return nil, err
		}
		stats.Tasks.Overdue = overdue
	}

	return stats, nil
}

func countOverdueTasks(actor permissions.Actor) (int64, error) {
	q, err := query.Build(permissions.ResourceTasks, actor, query.Params{})
	if err != nil {
		return 0, err
	}
	q.Where = append(q.Where, query.Clause{
		Expr: "due_date < ? AND status IN ?",
		Args: []interface{}{startOfToday(), taskOpenStatuses},
	})
	return store.Count(q, &models.Task{})
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

type MyTaskRow struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	ProjectName string    `json:"project_name,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date,omitempty"`
	Overdue     bool      `json:"overdue"`
}

// MyTasks lists the actor's own open assignments soonest-due first. Management
// sees their personal queue here too, not the whole company's.
func MyTasks(actor permissions.Actor, limit int) ([]MyTaskRow, error) {
	if !canView(actor, permissions.ResourceTasks) {
		return []MyTaskRow{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	q, err := query.Build(permissions.ResourceTasks, actor, query.Params{
		SortField:     "due_date",
		SortDirection: "asc",
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	q.Where = append(q.Where, query.Clause{
		Expr: "assigned_to = ? AND status IN ?",
		Args: []interface{}{actor.ID, taskOpenStatuses},
	})

	var tasks []models.Task
	if err := store.List(q, &tasks, "Project"); err != nil {
		return nil, err
	}

	today := startOfToday()
	rows := make([]MyTaskRow, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		row := MyTaskRow{
			ID:       t.ID,
			Title:    t.Title,
			Status:   string(t.Status),
			Priority: t.Priority,
			DueDate:  utils.FormatDate(t.DueDate),
		}
		if t.Project != nil {
			row.ProjectName = t.Project.Name
		}
		if t.DueDate != nil && t.DueDate.Before(today) {
			row.Overdue = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type Alert struct {
	Type         string    `json:"type"`
	Severity     string    `json:"severity"`
	Message      string    `json:"message"`
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
}

// alertScanLimit bounds each alert source; the widget shows a digest, not an
// exhaustive audit.
const alertScanLimit = 20

// Alerts assembles the attention list from live rows: overdue open tasks,
// drawings sitting in review and material specs waiting for a decision.
func Alerts(actor permissions.Actor) ([]Alert, error) {
	alerts := []Alert{}

	if canView(actor, permissions.ResourceTasks) {
		q, err := query.Build(permissions.ResourceTasks, actor, query.Params{
			SortField:     "due_date",
			SortDirection: "asc",
			Limit:         alertScanLimit,
		})
		if err != nil {
			return nil, err
		}
		q.Where = append(q.Where, query.Clause{
			Expr: "due_date < ? AND status IN ?",
			Args: []interface{}{startOfToday(), taskOpenStatuses},
		})

		var overdue []models.Task
		if err := store.List(q, &overdue); err != nil {
			return nil, err
		}
		for i := range overdue {
			alerts = append(alerts, Alert{
				Type:         "task_overdue",
				Severity:     "high",
				Message:      fmt.Sprintf("Task %q is past its due date", overdue[i].Title),
				ResourceType: "tasks",
				ResourceID:   overdue[i].ID,
			})
		}
	}

	if canView(actor, permissions.ResourceShopDrawings) {
		q, err := query.Build(permissions.ResourceShopDrawings, actor, query.Params{
			Status: string(models.DrawingUnderReview),
			Limit:  alertScanLimit,
		})
		if err != nil {
			return nil, err
		}
		var inReview []models.ShopDrawing
		if err := store.List(q, &inReview); err != nil {
			return nil, err
		}
		for i := range inReview {
			alerts = append(alerts, Alert{
				Type:         "drawing_review",
				Severity:     "medium",
				Message:      fmt.Sprintf("Shop drawing %s is waiting for review", inReview[i].DrawingNumber),
				ResourceType: "shop_drawings",
				ResourceID:   inReview[i].ID,
			})
		}
	}

	if canView(actor, permissions.ResourceMaterialSpecs) {
		q, err := query.Build(permissions.ResourceMaterialSpecs, actor, query.Params{
			Status: string(models.MaterialPendingApproval),
			Limit:  alertScanLimit,
		})
		if err != nil {
			return nil, err
		}
		var pending []models.MaterialSpec
		if err := store.List(q, &pending); err != nil {
			return nil, err
		}
		for i := range pending {
			alerts = append(alerts, Alert{
				Type:         "material_approval",
				Severity:     "medium",
				Message:      fmt.Sprintf("Material spec %q is pending approval", pending[i].Name),
				ResourceType: "material_specs",
				ResourceID:   pending[i].ID,
			})
		}
	}

	return alerts, nil
}
