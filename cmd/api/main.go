package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/mdjvazquez/finmks-v/internal/application/auth"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
	infraai "github.com/mdjvazquez/finmks-v/internal/infrastructure/ai"
	infracache "github.com/mdjvazquez/finmks-v/internal/infrastructure/cache"
	infrapdf "github.com/mdjvazquez/finmks-v/internal/infrastructure/pdf"
	"github.com/mdjvazquez/finmks-v/internal/infrastructure/postgres"
	httpRouter "github.com/mdjvazquez/finmks-v/internal/interfaces/http"
	"github.com/mdjvazquez/finmks-v/pkg/config"
	"github.com/mdjvazquez/finmks-v/pkg/jwt"
	"github.com/mdjvazquez/finmks-v/pkg/logger"
)

// bodyLimit cubre la foto del comprobante (10 MB) más el sobre multipart.
const bodyLimit = 12 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")
	zl := log.Zerolog()

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	if cfg.DB.MigrateOnStart {
		if err := migrateUp(cfg.DB, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	adminCodeRepo := postgres.NewAdminCodeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Los descartes viven lo mismo que la sesión (JWT).
	stores := infracache.New(ctx, cfg.Redis, tokens.TTL(), log.Component("cache"))
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar caché")
		}
	}()

	receipts, narrator := aiProviders(cfg.AI, log.Component("ai"))
	pdfGenerator := infrapdf.NewReportPDFGenerator(language.LatinAmericanSpanish)

	codes := onboarding.NewCodeService(invitationRepo, adminCodeRepo, userRepo, roleRepo)
	authUC := auth.NewAuthUseCase(userRepo, txRunner, codes, tokens, zl)

	codeLimiter, err := httpRouter.NewRateLimiter(cfg.RateLimit.Codes)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Codes).Msg("RATE_LIMIT_CODES inválido")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 20,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FinMakes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "cache": stores.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Codes:          codes,
		Sessions:       session.NewLoader(userRepo, roleRepo),
		CompanyUC:      usecase.NewCompanyUseCase(companyRepo, zl),
		UserUC:         usecase.NewUserUseCase(userRepo, roleRepo, zl),
		EmployeeUC:     usecase.NewEmployeeUseCase(employeeRepo, zl),
		RoleUC:         usecase.NewRoleUseCase(roleRepo, userRepo, zl),
		CashRegisterUC: usecase.NewCashRegisterUseCase(registerRepo, ledgerRepo, stores.Balances, zl),
		TransactionUC:  usecase.NewTransactionUseCase(ledgerRepo, registerRepo, txRunner, codes, stores.Balances, zl),
		ReceiptUC:      usecase.NewReceiptUseCase(receipts, zl),
		ReportUC:       usecase.NewReportUseCase(reportRepo, companyRepo, ledgerRepo, narrator, pdfGenerator, zl),
		NotificationUC: usecase.NewNotificationUseCase(ledgerRepo, stores.Dismissals, zl),
		DashboardUC:    usecase.NewDashboardUseCase(ledgerRepo),
		Tokens:         tokens,
		CodeLimiter:    codeLimiter,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// aiProviders elige el proveedor según AI_PROVIDER. Sin API key devuelve nil: la IA queda no disponible.
func aiProviders(cfg config.AIConfig, log zerolog.Logger) (ports.ReceiptAnalyzer, ports.ReportNarrator) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			break
		}
		svc := infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		log.Info().Str("provider", "anthropic").Str("model", cfg.AnthropicModel).Msg("IA configurada")
		return svc, svc
	default:
		if cfg.GeminiAPIKey == "" {
			break
		}
		svc := infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		log.Info().Str("provider", "gemini").Str("model", cfg.GeminiModel).Msg("IA configurada")
		return svc, svc
	}
	log.Warn().Str("provider", cfg.Provider).Msg("sin API key de IA: análisis de comprobantes y narración no disponibles")
	return nil, nil
}

func migrateUp(cfg config.DBConfig, log zerolog.Logger) error {
	m, err := postgres.NewMigrator(cfg.ConnectionString(), cfg.MigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrador")
		}
	}()
	return m.Up()
}
