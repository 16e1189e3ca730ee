package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/mdjvazquez/finmks-v/internal/application/auth"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Codes          *onboarding.CodeService
	Sessions       principalLoader
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	EmployeeUC     *usecase.EmployeeUseCase
	RoleUC         *usecase.RoleUseCase
	CashRegisterUC *usecase.CashRegisterUseCase
	TransactionUC  *usecase.TransactionUseCase
	ReceiptUC      *usecase.ReceiptUseCase
	ReportUC       *usecase.ReportUseCase
	NotificationUC *usecase.NotificationUseCase
	DashboardUC    *usecase.DashboardUseCase
	Tokens         TokenVerifier
	CodeLimiter    *limiter.Limiter // credenciales y códigos de 4 dígitos
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	limited := RateLimit(deps.CodeLimiter, deps.Log)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Codes)
	authGroup.Post("/register-company", limited, authHandler.RegisterCompany)
	authGroup.Post("/signup", limited, authHandler.SignUp)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Get("/invitations/:code", limited, authHandler.VerifyInvitation)

	// Rutas protegidas: Bearer Token + principal re-resuelto desde la base
	protected := api.Group("/", AuthMiddleware(deps.Tokens), SessionMiddleware(deps.Sessions))

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Transacciones y transferencias
	txHandler := NewTransactionHandler(deps.TransactionUC)
	receiptHandler := NewReceiptHandler(deps.ReceiptUC)
	transactions := protected.Group("/transactions")
	transactions.Get("/", txHandler.List)
	transactions.Post("/", txHandler.Create)
	transactions.Post("/receipt-analysis", receiptHandler.Analyze)
	transactions.Patch("/:id/paid", txHandler.MarkPaid)
	transactions.Delete("/:id", limited, txHandler.Delete)
	protected.Post("/transfers", txHandler.CreateTransfer)

	// Cajas
	registers := protected.Group("/cash-registers")
	registerHandler := NewCashRegisterHandler(deps.CashRegisterUC)
	registers.Get("/", registerHandler.List)
	registers.Post("/", registerHandler.Create)
	registers.Put("/:id", registerHandler.Update)
	registers.Delete("/:id", registerHandler.Delete)
	registers.Get("/:id/ledger", registerHandler.Ledger)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/", reportHandler.List)
	reports.Post("/", reportHandler.Generate)
	reports.Get("/:id", reportHandler.Get)
	reports.Post("/:id/analysis", reportHandler.Analyze)
	reports.Get("/:id/pdf", reportHandler.PDF)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Delete("/:id", notificationHandler.Dismiss)

	// RR. HH.
	employees := protected.Group("/employees")
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	// Configuración
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", companyHandler.Update)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.Codes)
	users.Get("/", userHandler.List)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateProfile)
	users.Post("/invitations", userHandler.CreateInvitation)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Patch("/:id/status", userHandler.ToggleStatus)
	protected.Post("/admin-codes", RequireRole(entity.RoleAdmin), userHandler.IssueAdminCode)

	roles := protected.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Get("/", roleHandler.List)
	roles.Get("/permissions", roleHandler.Tree)
	roles.Post("/", roleHandler.Create)
	roles.Put("/:id", roleHandler.Update)
	roles.Post("/:id/toggle-group", roleHandler.ToggleGroup)
	roles.Delete("/:id", roleHandler.Delete)
}
