package server

import (
	"time"

	"github.com/keramy/formulapmv2-sub001/internal/client"
	"github.com/keramy/formulapmv2-sub001/internal/dashboard"
	"github.com/keramy/formulapmv2-sub001/internal/drawing"
	"github.com/keramy/formulapmv2-sub001/internal/materialspec"
	"github.com/keramy/formulapmv2-sub001/internal/middleware"
	"github.com/keramy/formulapmv2-sub001/internal/notify"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/project"
	"github.com/keramy/formulapmv2-sub001/internal/report"
	"github.com/keramy/formulapmv2-sub001/internal/scope"
	"github.com/keramy/formulapmv2-sub001/internal/supplier"
	"github.com/keramy/formulapmv2-sub001/internal/task"
	"github.com/keramy/formulapmv2-sub001/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Formula PM API is running",
		})
	})

	// ==========================================
	// LIVE NOTIFICATIONS (token via query param)
	// ==========================================
	app.Get("/ws/notifications",
		notify.DefaultHub.UpgradeGuard(),
		notify.DefaultHub.Handler())

	// Uploads churn disk and bandwidth; keep a lid on them.
	uploadLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
	})

	api := app.Group("/api")
	api.Use(middleware.AuthRequired())

	// ==========================================
	// PROJECTS & TEAM MANAGEMENT
	// ==========================================
	projectGroup := api.Group("/projects")
	projectGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionView),
		project.ListProjectsHandler)
	projectGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionCreate),
		project.CreateProjectHandler)
	projectGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionView),
		project.GetProjectHandler)
	projectGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionEdit),
		project.UpdateProjectHandler)
	projectGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionDelete),
		project.DeleteProjectHandler)
	projectGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionChangeStatus),
		project.ChangeProjectStatusHandler)
	projectGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionView),
		project.ProjectHistoryHandler)
	projectGroup.Get("/:id/team",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionView),
		project.ListTeamHandler)
	projectGroup.Post("/:id/team",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionEdit),
		project.AddTeamMemberHandler)
	projectGroup.Delete("/:id/team/:user_id",
		middleware.PermissionProtected(permissions.ResourceProjects, permissions.ActionEdit),
		project.RemoveTeamMemberHandler)

	// ==========================================
	// TASKS
	// ==========================================
	taskGroup := api.Group("/tasks")
	taskGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionView),
		task.ListTasksHandler)
	taskGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionCreate),
		task.CreateTaskHandler)
	taskGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionView),
		task.GetTaskHandler)
	taskGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionEdit),
		task.UpdateTaskHandler)
	taskGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionDelete),
		task.DeleteTaskHandler)
	taskGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionChangeStatus),
		task.ChangeTaskStatusHandler)
	taskGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceTasks, permissions.ActionView),
		task.TaskHistoryHandler)

	// ==========================================
	// SCOPE ITEMS
	// ==========================================
	scopeGroup := api.Group("/scope")
	// The export route must land before "/:id" or Fiber matches it as an id.
	scopeGroup.Get("/export",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionExport),
		scope.ExportScopeHandler)
	scopeGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionView),
		scope.ListScopeItemsHandler)
	scopeGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionCreate),
		scope.CreateScopeItemHandler)
	scopeGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionView),
		scope.GetScopeItemHandler)
	scopeGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionEdit),
		scope.UpdateScopeItemHandler)
	scopeGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionDelete),
		scope.DeleteScopeItemHandler)
	scopeGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionChangeStatus),
		scope.ChangeScopeStatusHandler)
	scopeGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceScope, permissions.ActionView),
		scope.ScopeHistoryHandler)

	// ==========================================
	// SHOP DRAWINGS & REVIEW
	// ==========================================
	drawingGroup := api.Group("/shop-drawings")
	drawingGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionView),
		drawing.ListDrawingsHandler)
	drawingGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionCreate),
		drawing.CreateDrawingHandler)
	drawingGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionView),
		drawing.GetDrawingHandler)
	drawingGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionEdit),
		drawing.UpdateDrawingHandler)
	drawingGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionDelete),
		drawing.DeleteDrawingHandler)
	drawingGroup.Post("/:id/file", uploadLimiter,
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionEdit),
		drawing.UploadDrawingFileHandler)
	drawingGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionChangeStatus),
		drawing.ChangeDrawingStatusHandler)
	drawingGroup.Post("/:id/submit",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionChangeStatus),
		drawing.SubmitDrawingHandler)
	drawingGroup.Post("/:id/approve",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionApprove),
		drawing.ApproveDrawingHandler)
	drawingGroup.Post("/:id/reject",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionApprove),
		drawing.RejectDrawingHandler)
	drawingGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceShopDrawings, permissions.ActionView),
		drawing.DrawingHistoryHandler)

	// ==========================================
	// MATERIAL SPECS & APPROVAL
	// ==========================================
	materialGroup := api.Group("/material-specs")
	materialGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionView),
		materialspec.ListMaterialSpecsHandler)
	materialGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionCreate),
		materialspec.CreateMaterialSpecHandler)
	materialGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionView),
		materialspec.GetMaterialSpecHandler)
	materialGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionEdit),
		materialspec.UpdateMaterialSpecHandler)
	materialGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionDelete),
		materialspec.DeleteMaterialSpecHandler)
	materialGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionChangeStatus),
		materialspec.ChangeMaterialStatusHandler)
	materialGroup.Post("/:id/approve",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionApprove),
		materialspec.ApproveMaterialSpecHandler)
	materialGroup.Post("/:id/reject",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionApprove),
		materialspec.RejectMaterialSpecHandler)
	materialGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceMaterialSpecs, permissions.ActionView),
		materialspec.MaterialHistoryHandler)

	// ==========================================
	// REPORTS & REPORT LINES
	// ==========================================
	reportGroup := api.Group("/reports")
	reportGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionView),
		report.ListReportsHandler)
	reportGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionCreate),
		report.CreateReportHandler)
	reportGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionView),
		report.GetReportHandler)
	reportGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionEdit),
		report.UpdateReportHandler)
	reportGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionDelete),
		report.DeleteReportHandler)
	reportGroup.Put("/:id/status",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionChangeStatus),
		report.ChangeReportStatusHandler)
	reportGroup.Post("/:id/publish",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionChangeStatus),
		report.PublishReportHandler)
	reportGroup.Post("/:id/archive",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionChangeStatus),
		report.ArchiveReportHandler)
	reportGroup.Get("/:id/history",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionView),
		report.ReportHistoryHandler)
	reportGroup.Post("/:id/lines",
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionEdit),
		report.AddReportLineHandler)
	reportGroup.Post("/:id/lines/:line_id/photo", uploadLimiter,
		middleware.PermissionProtected(permissions.ResourceReports, permissions.ActionEdit),
		report.UploadLinePhotoHandler)

	// ==========================================
	// CLIENTS
	// ==========================================
	clientGroup := api.Group("/clients")
	clientGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceClients, permissions.ActionView),
		client.ListClientsHandler)
	clientGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceClients, permissions.ActionCreate),
		client.CreateClientHandler)
	clientGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceClients, permissions.ActionView),
		client.GetClientHandler)
	clientGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceClients, permissions.ActionEdit),
		client.UpdateClientHandler)
	clientGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceClients, permissions.ActionDelete),
		client.DeleteClientHandler)

	// ==========================================
	// SUPPLIERS
	// ==========================================
	supplierGroup := api.Group("/suppliers")
	supplierGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceSuppliers, permissions.ActionView),
		supplier.ListSuppliersHandler)
	supplierGroup.Post("/",
		middleware.PermissionProtected(permissions.ResourceSuppliers, permissions.ActionCreate),
		supplier.CreateSupplierHandler)
	supplierGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceSuppliers, permissions.ActionView),
		supplier.GetSupplierHandler)
	supplierGroup.Put("/:id",
		middleware.PermissionProtected(permissions.ResourceSuppliers, permissions.ActionEdit),
		supplier.UpdateSupplierHandler)
	supplierGroup.Delete("/:id",
		middleware.PermissionProtected(permissions.ResourceSuppliers, permissions.ActionDelete),
		supplier.DeleteSupplierHandler)

	// ==========================================
	// USER DIRECTORY (read-only)
	// ==========================================
	userGroup := api.Group("/users")
	userGroup.Get("/",
		middleware.PermissionProtected(permissions.ResourceUsers, permissions.ActionView),
		user.ListUsersHandler)
	userGroup.Get("/:id",
		middleware.PermissionProtected(permissions.ResourceUsers, permissions.ActionView),
		user.GetUserHandler)

	// ==========================================
	// DASHBOARD
	// ==========================================
	dashboardGroup := api.Group("/dashboard")
	dashboardGroup.Use(middleware.PermissionProtected(permissions.ResourceDashboard, permissions.ActionView))
	dashboardGroup.Get("/stats", dashboard.StatsHandler)
	dashboardGroup.Get("/my-tasks", dashboard.MyTasksHandler)
	dashboardGroup.Get("/alerts", dashboard.AlertsHandler)
}
