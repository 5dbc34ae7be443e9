package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/models"
	"github.com/keramy/formulapmv2-sub001/internal/server"
	"github.com/keramy/formulapmv2-sub001/internal/utils"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.UserProfile{},
		&models.Client{},
		&models.Supplier{},
		&models.Project{},
		&models.ProjectAssignment{},
		&models.Task{},
		&models.ScopeItem{},
		&models.ShopDrawing{},
		&models.MaterialSpec{},
		&models.Report{},
		&models.ReportLine{},
		&models.StatusChange{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db

	err := utils.InitLocalStorage()
	assert.NoError(t, err, "Failed to initialize storage")
	utils.SetStorageMode(true)

	app := server.New(db)
	return app
}

// CreateTestUser provisions a profile the way the auth provider would.
func CreateTestUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.UserProfile {
	user := &models.UserProfile{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Role:      role,
		IsActive:  active,
	}

	err := db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	// The model's default:true tag makes GORM skip a false IsActive on
	// insert, so deactivation has to be an explicit update.
	if !active {
		err = db.Model(user).Update("is_active", false).Error
		assert.NoError(t, err, "Failed to deactivate test user")
	}

	return user
}

func GetAuthToken(t *testing.T, userID uuid.UUID, role string) string {
	token, err := utils.GenerateJWT(userID, role)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

// AssignUserToProject adds a project membership row, which is what the
// scoping subqueries key off.
func AssignUserToProject(t *testing.T, db *gorm.DB, projectID, userID uuid.UUID, roleInProject string) {
	assignment := &models.ProjectAssignment{
		ProjectID:     projectID,
		UserID:        userID,
		RoleInProject: roleInProject,
	}
	err := db.Create(assignment).Error
	assert.NoError(t, err, "Failed to assign user to project")
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(bytes.NewReader(resp.Body.Bytes())).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
	Status  int         `json:"status"`
	Details interface{} `json:"details"`
	Meta    *Meta       `json:"meta"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotEmpty(t, result.Error, "Expected an error message")
	assert.Equal(t, expectedStatus, result.Status, "Status in body mismatch")
	assert.Equal(t, expectedStatus, resp.Code, "HTTP status mismatch")
}

type UploadFile struct {
	FieldName string
	FileName  string
	Content   []byte
}

func MakeMultipartRequestWithFile(app *fiber.App, method, url string, fields map[string]string, files []UploadFile, token string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, val := range fields {
		writer.WriteField(key, val)
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, err
		}
		part.Write(file.Content)
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}
