package dashboard_test

import (
	"testing"
	"time"

	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDashboardData(t *testing.T, admin, worker *models.UserProfile) (*models.Project, *models.Project) {
	projectA := &models.Project{Name: "Harbor Tower", Code: "HT-001", Status: models.ProjectActive, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(projectA).Error)
	projectB := &models.Project{Name: "Riverside Mall", Code: "RM-002", Status: models.ProjectPlanning, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(projectB).Error)

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	tasks := []models.Task{
		{ProjectID: projectA.ID, Title: "Install windows", Status: models.TaskInProgress, Priority: "high", AssignedTo: &worker.ID, DueDate: &tomorrow, CreatedBy: admin.ID},
		{ProjectID: projectA.ID, Title: "Fix railing", Status: models.TaskNotStarted, Priority: "urgent", AssignedTo: &worker.ID, DueDate: &yesterday, CreatedBy: admin.ID},
		{ProjectID: projectB.ID, Title: "Close out permits", Status: models.TaskCompleted, Priority: "medium", CreatedBy: admin.ID},
	}
	for i := range tasks {
		require.NoError(t, database.DB.Create(&tasks[i]).Error)
	}

	drawing := &models.ShopDrawing{ProjectID: projectA.ID, DrawingNumber: "HT-A-101", Title: "Lobby ceiling", Discipline: "architectural", Status: models.DrawingUnderReview, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(drawing).Error)

	spec := &models.MaterialSpec{ProjectID: projectA.ID, Name: "Oak veneer panel", Category: "millwork", Status: models.MaterialPendingApproval, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(spec).Error)

	report := &models.Report{ProjectID: projectA.ID, Title: "Week 12 progress", Type: "weekly", Status: models.ReportPublished, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(report).Error)

	return projectA, projectB
}

func TestDashboardStats(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	projectA, _ := seedDashboardData(t, admin, worker)

	t.Run("Success - management counts the whole company", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/stats", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})

		projects := data["projects"].(map[string]interface{})
		assert.Equal(t, float64(2), projects["total"])
		assert.Equal(t, float64(1), projects["active"])

		tasks := data["tasks"].(map[string]interface{})
		assert.Equal(t, float64(3), tasks["total"])
		assert.Equal(t, float64(1), tasks["in_progress"])
		assert.Equal(t, float64(1), tasks["completed"])
		assert.Equal(t, float64(1), tasks["overdue"])

		drawings := data["shop_drawings"].(map[string]interface{})
		assert.Equal(t, float64(1), drawings["awaiting_review"])

		specs := data["material_specs"].(map[string]interface{})
		assert.Equal(t, float64(1), specs["pending_approval"])

		reports := data["reports"].(map[string]interface{})
		assert.Equal(t, float64(1), reports["published"])
	})

	t.Run("Success - field worker counts only their slice", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/stats", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})

		projects := data["projects"].(map[string]interface{})
		assert.Equal(t, float64(0), projects["total"])

		tasks := data["tasks"].(map[string]interface{})
		assert.Equal(t, float64(2), tasks["total"])
		assert.Equal(t, float64(1), tasks["overdue"])
	})

	t.Run("Success - ungranted resources stay at zero", func(t *testing.T) {
		client := testutils.CreateTestUser(t, database.DB, "client@formulapm.test", "client", true)
		clientToken := testutils.GetAuthToken(t, client.ID, client.Role)
		testutils.AssignUserToProject(t, database.DB, projectA.ID, client.ID, "client_rep")

		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/stats", nil, clientToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})

		projects := data["projects"].(map[string]interface{})
		assert.Equal(t, float64(1), projects["total"])

		tasks := data["tasks"].(map[string]interface{})
		assert.Equal(t, float64(0), tasks["total"])

		drawings := data["shop_drawings"].(map[string]interface{})
		assert.Equal(t, float64(1), drawings["awaiting_review"])
	})
}

func TestDashboardMyTasks(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	seedDashboardData(t, admin, worker)

	t.Run("Success - open assignments soonest first", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/my-tasks", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 2)

		first := rows[0].(map[string]interface{})
		assert.Equal(t, "Fix railing", first["title"])
		assert.Equal(t, true, first["overdue"])
		assert.Equal(t, "Harbor Tower", first["project_name"])

		second := rows[1].(map[string]interface{})
		assert.Equal(t, "Install windows", second["title"])
		assert.Equal(t, false, second["overdue"])
	})

	t.Run("Success - limit trims the queue", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/my-tasks?limit=1", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 1)
	})

	t.Run("Success - nothing assigned means an empty queue", func(t *testing.T) {
		other := testutils.CreateTestUser(t, database.DB, "other@formulapm.test", "field", true)
		otherToken := testutils.GetAuthToken(t, other.ID, other.Role)

		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/my-tasks", nil, otherToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 0)
	})
}

func TestDashboardAlerts(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	projectA, _ := seedDashboardData(t, admin, worker)

	t.Run("Success - management sees every alert source", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/alerts", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		alerts := result.Data.([]interface{})
		require.Len(t, alerts, 3)

		types := map[string]string{}
		for _, a := range alerts {
			row := a.(map[string]interface{})
			types[row["type"].(string)] = row["severity"].(string)
		}
		assert.Equal(t, "high", types["task_overdue"])
		assert.Equal(t, "medium", types["drawing_review"])
		assert.Equal(t, "medium", types["material_approval"])
	})

	t.Run("Success - field worker gets only in-scope alerts", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/alerts", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		alerts := result.Data.([]interface{})
		require.Len(t, alerts, 1)

		alert := alerts[0].(map[string]interface{})
		assert.Equal(t, "task_overdue", alert["type"])
		assert.Contains(t, alert["message"], "Fix railing")
	})

	t.Run("Success - client alerts skip ungranted resources", func(t *testing.T) {
		client := testutils.CreateTestUser(t, database.DB, "client@formulapm.test", "client", true)
		clientToken := testutils.GetAuthToken(t, client.ID, client.Role)
		testutils.AssignUserToProject(t, database.DB, projectA.ID, client.ID, "client_rep")

		resp, err := testutils.MakeRequest(app, "GET", "/api/dashboard/alerts", nil, clientToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		alerts := result.Data.([]interface{})
		require.Len(t, alerts, 1)
		assert.Equal(t, "drawing_review", alerts[0].(map[string]interface{})["type"])
	})
}
