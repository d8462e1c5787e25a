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
	"github.com/jhoicas/bienestar-api/internal/application/access"
	"github.com/jhoicas/bienestar-api/internal/application/ports"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/infrastructure/identity"
	"github.com/jhoicas/bienestar-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bienestar-api/internal/interfaces/http"
	"github.com/jhoicas/bienestar-api/pkg/config"
	"github.com/jhoicas/bienestar-api/pkg/logger"
	"github.com/supabase-community/supabase-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	profileRepo := postgres.NewProfileRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)

	// API admin del proveedor: sin URL de proyecto no hay lectura fresca en login ni espejo de metadata.
	var directory ports.IdentityDirectory
	if cfg.Identity.ProjectURL != "" {
		client, err := supabase.NewClient(cfg.Identity.ProjectURL, cfg.Identity.ServiceKey, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Supabase")
		}
		admin, err := identity.NewAdminClient(client.Auth, cfg.Identity.ServiceKey, cfg.Identity.Timeout)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente admin del proveedor de identidad")
		}
		directory = admin
	} else {
		log.Warn().Msg("IDENTITY_PROJECT_URL vacío: espejo de metadata deshabilitado")
	}

	allowlist := authz.NewAllowlist(cfg.Access.MasterAdmins...)
	if allowlist.Len() == 0 {
		log.Warn().Msg("ACCESS_MASTER_ADMINS vacío: sin cuentas maestras")
	}
	resolver := authz.NewResolver(allowlist)

	provider := access.NewProvider(profileRepo, resolver, cfg.Access.ProfileTimeout, log.Component("access"))
	sessionSync := access.NewSessionSync(profileRepo, companyRepo, directory, resolver, access.SyncConfig{
		ProfileTimeout:  cfg.Access.ProfileTimeout,
		IdentityTimeout: cfg.Identity.Timeout,
	}, log.Component("session_sync"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bienestar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Provider: provider,
		Sync:     sessionSync,
		Profiles: profileRepo,
		Resolver: resolver,
		Token: httpRouter.TokenConfig{
			Secret: cfg.Identity.JWTSecret,
			Issuer: cfg.Identity.JWTIssuer,
			Cookie: cfg.Access.TokenCookie,
		},
		LoginPath:   cfg.Access.LoginPath,
		EdgeTimeout: cfg.Access.EdgeTimeout,
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
