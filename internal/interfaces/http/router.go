package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Gestion-api/internal/application/analytics"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/export"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
	BodyLimit   int // bytes; 0 = límite por defecto de Fiber
}

// NewApp crea la aplicación Fiber con el manejo de errores y los middlewares
// comunes (recover, request id, CORS, logging y métricas).
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	// Immutable: los strings de params, headers y formularios se copian. Las
	// etiquetas de métricas y los valores de formulario sobreviven a la petición.
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		Immutable:    true,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, id, customerId",
		ExposeHeaders: fiber.HeaderContentDisposition,
	}))
	app.Use(RequestLogger(log))
	app.Use(Metrics())
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	RecordsUC   *crud.UseCase
	ExportUC    *export.UseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. El orden importa: las rutas fijas van
// antes que las de /api/:resource.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret, deps.AuthUC)

	records := NewRecordHandler(deps.RecordsUC, deps.ExportUC)
	schemas := NewSchemaHandler(deps.RecordsUC)
	dashboard := NewDashboardHandler(deps.DashboardUC)

	// Auth (público salvo logout y me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/customer/login", authHandler.CustomerLogin)
	authGroup.Post("/logout", authMW, authHandler.Logout)
	authGroup.Get("/me", authMW, authHandler.Me)

	// Portal de clientes (token de cliente)
	portal := api.Group("/portal", authMW, RequireKind(jwt.KindCustomer))
	portal.Get("/dashboard", dashboard.PortalSummary)
	portal.Get("/schemas", schemas.Index)
	portal.Get("/schemas/:resource", schemas.Get)
	portal.Get("/schemas/:resource/modal/:mode", schemas.Modal)
	portal.Post("/schemas/:resource/validate", schemas.Validate)
	portal.Get("/schemas/:resource/options/:field", schemas.Options)
	portal.Get("/:resource", records.List)
	portal.Post("/:resource", records.Create)
	portal.Get("/:resource/:id", records.Get)

	// Rutas internas (token de usuario)
	protected := api.Group("/", authMW, RequireRole())

	protected.Get("/dashboard/summary", dashboard.Summary)

	protected.Get("/schemas", schemas.Index)
	protected.Get("/schemas/:resource", schemas.Get)
	protected.Get("/schemas/:resource/modal/:mode", schemas.Modal)
	protected.Post("/schemas/:resource/validate", schemas.Validate)
	protected.Get("/schemas/:resource/options/:field", schemas.Options)

	protected.Put("/customers/:id/password", RequireRole(entity.RoleAdmin, entity.RoleManager), authHandler.SetCustomerPassword)

	// Convención heredada: el id viaja en headers.
	protected.Get("/:resource/detailes", records.GetByHeader)
	protected.Get("/:resource/byCustomer", records.ListByCustomer)
	protected.Put("/:resource/update", records.UpdateByHeader)
	protected.Delete("/:resource/delete", records.DeleteByHeader)

	protected.Get("/:resource/export/:format", records.Export)
	protected.Get("/:resource", records.List)
	protected.Post("/:resource", records.Create)
	protected.Get("/:resource/:id", records.Get)
	protected.Put("/:resource/:id", records.Update)
	protected.Delete("/:resource/:id", records.Delete)
}
