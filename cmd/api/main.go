package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/docs"
	"github.com/jhoicas/Gestion-api/internal/application/analytics"
	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/crud"
	"github.com/jhoicas/Gestion-api/internal/application/export"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/cache"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/excel"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

const (
	filesPrefix = "/files"
	bodyLimit   = 20 * 1024 * 1024
)

// @title                       Gestión API
// @version                     1.0
// @description                 Backend de administración con pantallas descritas por esquema.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	recordRepo := postgres.NewRecordRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerAccountRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)

	// Revocación de tokens y límite de login: Redis si está configurado,
	// memoria del proceso en caso contrario (una sola instancia).
	var (
		blacklist ports.TokenBlacklist
		limiter   ports.LoginLimiter
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		blacklist = cache.NewRedisTokenBlacklist(rdb)
		limiter = cache.NewRedisLoginLimiter(rdb, cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window)
		log.Info().Msg("cache: redis")
	} else {
		blacklist = cache.NewMemoryTokenBlacklist()
		limiter = cache.NewMemoryLoginLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window)
		log.Warn().Msg("cache: memoria (REDIS_URL vacío)")
	}

	var fileStorage ports.FileStorage
	if cfg.Storage.UsesS3() {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage, log.Component("storage"))
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("bucket S3")
		}
		fileStorage = s3Storage
	} else {
		if err := os.MkdirAll(cfg.Storage.LocalDir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Storage.LocalDir).Msg("directorio de adjuntos")
		}
		fileStorage = storage.NewLocalStorage(cfg.Storage.LocalDir, filesPrefix)
	}

	recordsUC := crud.NewUseCase(entity.NewRegistry(), recordRepo, schema.NewValidator(), fileStorage)
	exportUC := export.NewUseCase(recordsUC, excel.NewTableExporter(), pdf.NewTableExporter())
	dashboardUC := analytics.NewDashboardUseCase(dashboardRepo)
	authUC := auth.NewAuthUseCase(userRepo, customerRepo, blacklist, limiter, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		BodyLimit:   bodyLimit,
	}, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	// Sin archivo en disco se publica solo la especificación embebida.
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		app.Get("/docs/swagger.json", func(c *fiber.Ctx) error {
			c.Type("json")
			return c.SendString(docs.SwaggerInfo.ReadDoc())
		})
	}

	if !cfg.Storage.UsesS3() {
		app.Static(filesPrefix, cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		RecordsUC:   recordsUC,
		ExportUC:    exportUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
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

func migrateUp(databaseURL string, log *logger.Logger) error {
	m, err := postgres.NewMigrator(databaseURL, log.Component("migrate"))
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
