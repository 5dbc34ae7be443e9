package project_test

import (
	"testing"

	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	t.Run("Success - minimal body defaults to planning", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name": "Tower Renovation",
			"code": "TWR-001",
		}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)

		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Tower Renovation", data["name"])
		assert.Equal(t, "TWR-001", data["code"])
		assert.Equal(t, "planning", data["status"])
	})

	t.Run("Success - project manager becomes the manager and a team member", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name":       "Harbor Offices",
			"code":       "HBR-001",
			"budget":     250000.50,
			"start_date": "2026-01-10",
			"end_date":   "2026-09-30",
		}, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, pm.FullName(), data["manager_name"])
		assert.Equal(t, "2026-01-10", data["start_date"])
		assert.Equal(t, "250000.5", data["budget"])

		var assignments int64
		require.NoError(t, database.DB.Model(&models.ProjectAssignment{}).
			Where("user_id = ?", pm.ID).Count(&assignments).Error)
		assert.Equal(t, int64(1), assignments)
	})

	t.Run("Success - client name resolves on the detail view", func(t *testing.T) {
		client := &models.Client{CompanyName: "Harbor Holdings", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(client).Error)

		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name":      "Harbor Annex",
			"code":      "HBR-002",
			"client_id": client.ID.String(),
		}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Harbor Holdings", data["client_name"])
	})

	t.Run("Error - empty body", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Equal(t, "Request body is required", result.Error)
	})

	t.Run("Error - missing code", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name": "No Code",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - duplicate code", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name": "Tower Again",
			"code": "TWR-001",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})

	t.Run("Error - unknown client", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name":      "Ghost Client",
			"code":      "GHO-001",
			"client_id": "23a9efa2-32cc-4f0a-9a5a-54f23ddc4a59",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - end date before start date", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name":       "Backwards",
			"code":       "BCK-001",
			"start_date": "2026-06-01",
			"end_date":   "2026-05-01",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - field role cannot create projects", func(t *testing.T) {
		worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
		workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

		resp, err := testutils.MakeRequest(app, "POST", "/api/projects", map[string]interface{}{
			"name": "Worker Project",
			"code": "WRK-001",
		}, workerToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})
}

func TestListProjects(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	managed := &models.Project{Name: "Managed", Code: "MGD-001", ProjectManagerID: &pm.ID, CreatedBy: admin.ID}
	member := &models.Project{Name: "Member", Code: "MBR-001", CreatedBy: admin.ID}
	unrelated := &models.Project{Name: "Unrelated", Code: "UNR-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(managed).Error)
	require.NoError(t, database.DB.Create(member).Error)
	require.NoError(t, database.DB.Create(unrelated).Error)
	testutils.AssignUserToProject(t, database.DB, member.ID, pm.ID, "engineer")

	t.Run("Success - management sees every project", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		assert.Len(t, rows, 3)
	})

	t.Run("Success - manager sees managed and member projects only", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects", nil, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 2)

		names := map[string]bool{}
		for _, row := range rows {
			names[row.(map[string]interface{})["name"].(string)] = true
		}
		assert.True(t, names["Managed"])
		assert.True(t, names["Member"])
		assert.False(t, names["Unrelated"])
	})

	t.Run("Success - status filter", func(t *testing.T) {
		require.NoError(t, database.DB.Model(managed).Update("status", models.ProjectActive).Error)

		resp, err := testutils.MakeRequest(app, "GET", "/api/projects?status=active", nil, adminToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "Managed", rows[0].(map[string]interface{})["name"])
	})

	t.Run("Error - invalid status filter", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects?status=bogus", nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Success - search by name", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects?search=unrel", nil, adminToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "UNR-001", rows[0].(map[string]interface{})["code"])
	})

	t.Run("Success - pagination meta", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects?limit=2&page=1", nil, adminToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		require.NotNil(t, result.Meta)
		assert.Equal(t, int64(3), result.Meta.Total)
		assert.Equal(t, 2, result.Meta.TotalPages)
		rows := result.Data.([]interface{})
		assert.Len(t, rows, 2)
	})
}

func TestGetProject(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	hidden := &models.Project{Name: "Hidden", Code: "HID-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(hidden).Error)

	t.Run("Success - detail keeps the full timestamp", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects/"+hidden.ID.String(), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		created := data["created_at"].(string)
		assert.Greater(t, len(created), 10, "detail views keep the timestamp, got %s", created)
	})

	t.Run("Error - out of scope reads as not found", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects/"+hidden.ID.String(), nil, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 404)
	})

	t.Run("Error - malformed id", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects/not-a-uuid", nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})
}

func TestUpdateProject(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	project := &models.Project{Name: "Original", Code: "ORG-001", ProjectManagerID: &pm.ID, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	t.Run("Success - partial update leaves other fields alone", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String(), map[string]interface{}{
			"description": "Now with a description",
		}, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Original", data["name"])
		assert.Equal(t, "Now with a description", data["description"])
	})

	t.Run("Error - name cannot be blanked", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String(), map[string]interface{}{
			"name": "",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - manager cannot update a project outside their scope", func(t *testing.T) {
		foreign := &models.Project{Name: "Foreign", Code: "FRN-001", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(foreign).Error)

		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+foreign.ID.String(), map[string]interface{}{
			"description": "should not land",
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 404)
	})
}

func TestDeleteProject(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	t.Run("Error - manager role cannot delete projects", func(t *testing.T) {
		project := &models.Project{Name: "Keep", Code: "KEP-001", ProjectManagerID: &pm.ID, CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(project).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/projects/"+project.ID.String(), nil, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})

	t.Run("Error - project with tasks attached", func(t *testing.T) {
		project := &models.Project{Name: "Busy", Code: "BSY-001", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(project).Error)
		task := &models.Task{Title: "Pour slab", ProjectID: project.ID, CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(task).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/projects/"+project.ID.String(), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})

	t.Run("Success - empty project deletes", func(t *testing.T) {
		project := &models.Project{Name: "Idle", Code: "IDL-001", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(project).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/projects/"+project.ID.String(), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		check, err := testutils.MakeRequest(app, "GET", "/api/projects/"+project.ID.String(), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, check, 404)
	})
}

func TestProjectStatus(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	project := &models.Project{Name: "Flow", Code: "FLW-001", ProjectManagerID: &pm.ID, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	t.Run("Error - cannot skip planning straight to completed", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String()+"/status", map[string]interface{}{
			"status": "completed",
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Contains(t, result.Error, "Cannot transition from planning to completed")
	})

	t.Run("Error - unknown status", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String()+"/status", map[string]interface{}{
			"status": "paused",
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Success - planning to active writes an audit row", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String()+"/status", map[string]interface{}{
			"status":  "active",
			"comment": "Kickoff done",
		}, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "active", data["status"])

		history, err := testutils.MakeRequest(app, "GET", "/api/projects/"+project.ID.String()+"/history", nil, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, history.Code)

		var historyResult testutils.StandardResponse
		testutils.ParseResponse(t, history, &historyResult)
		entries := historyResult.Data.([]interface{})
		require.Len(t, entries, 1)
		entry := entries[0].(map[string]interface{})
		assert.Equal(t, "planning", entry["from_status"])
		assert.Equal(t, "active", entry["to_status"])
		assert.Equal(t, "Kickoff done", entry["comment"])
		assert.Equal(t, pm.FullName(), entry["changed_by_name"])
	})

	t.Run("Success - on hold and back to active", func(t *testing.T) {
		for _, next := range []string{"on_hold", "active"} {
			resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String()+"/status", map[string]interface{}{
				"status": next,
			}, adminToken)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.Code)
		}
	})

	t.Run("Error - field role lacks the status grant", func(t *testing.T) {
		worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
		workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+project.ID.String()+"/status", map[string]interface{}{
			"status": "on_hold",
		}, workerToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})

	t.Run("Error - manager cannot move a project outside their scope", func(t *testing.T) {
		foreign := &models.Project{Name: "Foreign Flow", Code: "FFW-001", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(foreign).Error)

		resp, err := testutils.MakeRequest(app, "PUT", "/api/projects/"+foreign.ID.String()+"/status", map[string]interface{}{
			"status": "active",
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 404)
	})
}

func TestProjectTeam(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	_ = testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	project := &models.Project{Name: "Teamwork", Code: "TMW-001", ProjectManagerID: &pm.ID, CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	t.Run("Success - adding a member makes the project visible to them", func(t *testing.T) {
		before, err := testutils.MakeRequest(app, "GET", "/api/projects", nil, workerToken)
		require.NoError(t, err)
		var beforeResult testutils.StandardResponse
		testutils.ParseResponse(t, before, &beforeResult)
		assert.Empty(t, beforeResult.Data.([]interface{}))

		resp, err := testutils.MakeRequest(app, "POST", "/api/projects/"+project.ID.String()+"/team", map[string]interface{}{
			"user_id":         worker.ID.String(),
			"role_in_project": "site_engineer",
		}, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		after, err := testutils.MakeRequest(app, "GET", "/api/projects", nil, workerToken)
		require.NoError(t, err)
		var afterResult testutils.StandardResponse
		testutils.ParseResponse(t, after, &afterResult)
		rows := afterResult.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "Teamwork", rows[0].(map[string]interface{})["name"])
	})

	t.Run("Success - team listing resolves member profiles", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/projects/"+project.ID.String()+"/team", nil, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		member := rows[0].(map[string]interface{})
		assert.Equal(t, worker.FullName(), member["name"])
		assert.Equal(t, "site_engineer", member["role_in_project"])
	})

	t.Run("Error - duplicate assignment", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects/"+project.ID.String()+"/team", map[string]interface{}{
			"user_id": worker.ID.String(),
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})

	t.Run("Error - unknown user", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects/"+project.ID.String()+"/team", map[string]interface{}{
			"user_id": "7e57ed2e-5c7e-4f6e-9b39-111111111111",
		}, pmToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - field role cannot manage the team", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/projects/"+project.ID.String()+"/team", map[string]interface{}{
			"user_id": admin.ID.String(),
		}, workerToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})

	t.Run("Success - removing the member hides the project again", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/projects/"+project.ID.String()+"/team/"+worker.ID.String(), nil, pmToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		after, err := testutils.MakeRequest(app, "GET", "/api/projects", nil, workerToken)
		require.NoError(t, err)
		var afterResult testutils.StandardResponse
		testutils.ParseResponse(t, after, &afterResult)
		assert.Empty(t, afterResult.Data.([]interface{}))
	})
}
