package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/access"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Provider    *access.Provider
	Sync        *access.SessionSync
	Profiles    projectionReader
	Resolver    *authz.Resolver
	Token       TokenConfig
	LoginPath   string
	EdgeTimeout time.Duration
}

// Router registra el edge gate, las páginas y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	routes := DefaultRoutes()

	// Edge gate delante de todo: solo actúa sobre "/" y los paths de la tabla.
	app.Use(EdgeGate(EdgeGateConfig{
		Token:     deps.Token,
		LoginPath: deps.LoginPath,
		Timeout:   deps.EdgeTimeout,
		Routes:    routes,
	}, deps.Profiles, deps.Resolver))

	app.Get(deps.LoginPath, LoginPage)
	for _, r := range routes {
		app.Get(r.Prefix, Page)
		app.Get(r.Prefix+"/*", Page)
	}

	api := app.Group("/api")
	authn := AuthMiddleware(deps.Token)

	// Auth (token del proveedor)
	authHandler := NewAuthHandler(deps.Sync)
	api.Post("/auth/callback", authn, authHandler.Callback)

	accessHandler := NewAccessHandler(deps.Sync)
	resolved := AccessMiddleware(deps.Provider)

	// Acceso del principal
	api.Get("/access/me", authn, resolved, accessHandler.Me)
	api.Post("/access/switch", authn, accessHandler.Switch)

	// Administración (super_admin o company_admin)
	admin := api.Group("/admin", authn, resolved, RequireRole(access.CompanyAdministrationRoles...))
	admin.Put("/profiles/:id/access", accessHandler.ForceUpdate)
}
