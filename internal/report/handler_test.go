package report_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)

	project := &models.Project{Name: "Harbor Tower", Code: "HT-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	t.Run("Success - report body is stored sanitized", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id":  project.ID.String(),
			"title":       "Daily site report",
			"type":        "daily",
			"summary":     "Concrete pour on level 3",
			"body":        "<p>Pour completed by 14:00.</p><script>alert('x')</script>",
			"report_date": "2026-03-14",
		}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Daily site report", data["title"])
		assert.Equal(t, "draft", data["status"])
		assert.Equal(t, "2026-03-14", data["report_date"])
		assert.Equal(t, "<p>Pour completed by 14:00.</p>", data["body"])
	})

	t.Run("Error - missing title", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id": project.ID.String(),
			"type":       "daily",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - unknown report type", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id": project.ID.String(),
			"title":      "Quarterly",
			"type":       "quarterly",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - malformed report date", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id":  project.ID.String(),
			"title":       "Bad date",
			"report_date": "14/03/2026",
		}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - client cannot create reports", func(t *testing.T) {
		client := testutils.CreateTestUser(t, database.DB, "client@formulapm.test", "client", true)
		clientToken := testutils.GetAuthToken(t, client.ID, client.Role)

		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id": project.ID.String(),
			"title":      "Client report",
		}, clientToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})
}

func TestReportPublishing(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	project := &models.Project{Name: "Harbor Tower", Code: "HT-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	report := &models.Report{ProjectID: project.ID, Title: "Week 12 progress", Type: "weekly", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(report).Error)

	t.Run("Error - cannot archive a draft", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/archive", report.ID), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - field worker cannot publish", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/publish", report.ID), nil, workerToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})

	t.Run("Success - publishing stamps the timestamp", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/publish", report.ID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "published", data["status"])
		assert.NotEmpty(t, data["published_at"])
	})

	t.Run("Error - published reports are locked", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT",
			fmt.Sprintf("/api/reports/%s", report.ID), map[string]interface{}{
				"title": "Rewritten after the fact",
			}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)

		resp, err = testutils.MakeRequest(app, "DELETE",
			fmt.Sprintf("/api/reports/%s", report.ID), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})

	t.Run("Success - archive after publish", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/archive", report.ID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "archived", data["status"])
	})

	t.Run("Error - archived is terminal", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/publish", report.ID), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Success - history lists both transitions newest first", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET",
			fmt.Sprintf("/api/reports/%s/history", report.ID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		entries := result.Data.([]interface{})
		require.Len(t, entries, 2)

		latest := entries[0].(map[string]interface{})
		assert.Equal(t, "published", latest["from_status"])
		assert.Equal(t, "archived", latest["to_status"])
		assert.Equal(t, "Test User", latest["changed_by_name"])

		first := entries[1].(map[string]interface{})
		assert.Equal(t, "draft", first["from_status"])
		assert.Equal(t, "published", first["to_status"])
	})
}

func TestReportLines(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)

	project := &models.Project{Name: "Harbor Tower", Code: "HT-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	report := &models.Report{ProjectID: project.ID, Title: "Foundation log", Type: "daily", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(report).Error)

	var firstLineID string

	t.Run("Success - lines are numbered in order", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines", report.ID), map[string]interface{}{
				"description": "Poured foundation slab, zone A",
			}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["line_no"])
		firstLineID = data["id"].(string)

		resp, err = testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines", report.ID), map[string]interface{}{
				"description": "Rebar inspection passed",
			}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		testutils.ParseResponse(t, resp, &result)
		data = result.Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["line_no"])
	})

	t.Run("Error - empty description", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines", report.ID), map[string]interface{}{}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Success - photo is stored against the line", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines/%s/photo", report.ID, firstLineID),
			map[string]string{},
			[]testutils.UploadFile{{FieldName: "file", FileName: "slab-zone-a.jpg", Content: []byte("jpeg bytes")}},
			adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.NotEmpty(t, data["photo_url"])
	})

	t.Run("Error - unknown line", func(t *testing.T) {
		resp, err := testutils.MakeMultipartRequestWithFile(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines/%s/photo", report.ID, uuid.New()),
			map[string]string{},
			[]testutils.UploadFile{{FieldName: "file", FileName: "lost.jpg", Content: []byte("jpeg bytes")}},
			adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 404)
	})

	t.Run("Success - detail view carries the lines", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET",
			fmt.Sprintf("/api/reports/%s", report.ID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		lines := data["lines"].([]interface{})
		require.Len(t, lines, 2)
		first := lines[0].(map[string]interface{})
		assert.Equal(t, "Poured foundation slab, zone A", first["description"])
	})

	t.Run("Error - lines are locked after publishing", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/publish", report.ID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "POST",
			fmt.Sprintf("/api/reports/%s/lines", report.ID), map[string]interface{}{
				"description": "Late addition",
			}, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})
}

func TestReportScoping(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	worker := testutils.CreateTestUser(t, database.DB, "worker@formulapm.test", "field", true)
	workerToken := testutils.GetAuthToken(t, worker.ID, worker.Role)

	project := &models.Project{Name: "Harbor Tower", Code: "HT-001", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(project).Error)

	adminReport := &models.Report{ProjectID: project.ID, Title: "Management summary", Type: "weekly", CreatedBy: admin.ID}
	require.NoError(t, database.DB.Create(adminReport).Error)

	t.Run("Success - outsider sees nothing", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/reports", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 0)
	})

	t.Run("Error - out-of-scope report reads as missing", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET",
			fmt.Sprintf("/api/reports/%s", adminReport.ID), nil, workerToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 404)
	})

	t.Run("Success - membership opens the project's reports", func(t *testing.T) {
		testutils.AssignUserToProject(t, database.DB, project.ID, worker.ID, "site_engineer")

		resp, err := testutils.MakeRequest(app, "GET", "/api/reports", nil, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		row := rows[0].(map[string]interface{})
		assert.Equal(t, "Management summary", row["title"])
		assert.Equal(t, "Harbor Tower", row["project_name"])
	})

	t.Run("Success - member can file their own report", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/reports", map[string]interface{}{
			"project_id": project.ID.String(),
			"title":      "Field log, day 41",
			"type":       "daily",
		}, workerToken)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/api/reports", nil, workerToken)
		require.NoError(t, err)
		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 2)
	})
}
