package supplier_test

import (
	"testing"

	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSupplier(t *testing.T) {
	app := testutils.SetupTestApp(t)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	token := testutils.GetAuthToken(t, pm.ID, pm.Role)

	t.Run("Success - project manager creates a supplier", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/suppliers", map[string]interface{}{
			"name":      "Apex Millwork",
			"specialty": "millwork",
		}, token)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Apex Millwork", data["name"])
		assert.Equal(t, "millwork", data["specialty"])
	})

	t.Run("Error - empty body", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/suppliers", map[string]interface{}{}, token)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 400)
	})

	t.Run("Error - subcontractor cannot create suppliers", func(t *testing.T) {
		sub := testutils.CreateTestUser(t, database.DB, "sub@formulapm.test", "subcontractor", true)
		subToken := testutils.GetAuthToken(t, sub.ID, sub.Role)

		resp, err := testutils.MakeRequest(app, "POST", "/api/suppliers", map[string]interface{}{
			"name": "Side Door Supply",
		}, subToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 403)
	})
}

func TestListSuppliers(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	pm := testutils.CreateTestUser(t, database.DB, "pm@formulapm.test", "project_manager", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)
	pmToken := testutils.GetAuthToken(t, pm.ID, pm.Role)

	require.NoError(t, database.DB.Create(&models.Supplier{Name: "PM Glass", Specialty: "glazing", CreatedBy: pm.ID}).Error)
	require.NoError(t, database.DB.Create(&models.Supplier{Name: "HQ Steel", Specialty: "structural", CreatedBy: admin.ID}).Error)

	t.Run("Success - management sees all suppliers", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/suppliers", nil, adminToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data.([]interface{}), 2)
	})

	t.Run("Success - non-management only sees their own", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/suppliers", nil, pmToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "PM Glass", rows[0].(map[string]interface{})["name"])
	})

	t.Run("Success - specialty search", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/suppliers?search=structural", nil, adminToken)
		require.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		rows := result.Data.([]interface{})
		require.Len(t, rows, 1)
		assert.Equal(t, "HQ Steel", rows[0].(map[string]interface{})["name"])
	})
}

func TestDeleteSupplier(t *testing.T) {
	app := testutils.SetupTestApp(t)
	admin := testutils.CreateTestUser(t, database.DB, "admin@formulapm.test", "admin", true)
	adminToken := testutils.GetAuthToken(t, admin.ID, admin.Role)

	t.Run("Error - supplier with scope items is blocked", func(t *testing.T) {
		sup := &models.Supplier{Name: "Busy Supply", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(sup).Error)

		project := &models.Project{Name: "Mall Renovation", Code: "MALL-01", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(project).Error)

		supID := sup.ID
		item := &models.ScopeItem{
			ProjectID:   project.ID,
			ItemNo:      1,
			Category:    "millwork",
			Description: "Reception desk",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(4500),
			TotalPrice:  decimal.NewFromInt(4500),
			SupplierID:  &supID,
			CreatedBy:   admin.ID,
		}
		require.NoError(t, database.DB.Create(item).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/suppliers/"+sup.ID.String(), nil, adminToken)
		require.NoError(t, err)
		testutils.AssertError(t, resp, 409)
	})

	t.Run("Success - unused supplier deletes", func(t *testing.T) {
		idle := &models.Supplier{Name: "Idle Supply", CreatedBy: admin.ID}
		require.NoError(t, database.DB.Create(idle).Error)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/suppliers/"+idle.ID.String(), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})
}
