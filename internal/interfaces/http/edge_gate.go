package http

import (
	"context"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// projectionReader lectura barata de las columnas de rol del perfil.
// Lo implementa *postgres.ProfileRepo.
type projectionReader interface {
	GetAccessProjection(ctx context.Context, id string) (*entity.AccessProjection, error)
}

// EdgeGateConfig parámetros del edge gate.
type EdgeGateConfig struct {
	Token     TokenConfig
	LoginPath string
	Timeout   time.Duration // presupuesto de la lectura de la proyección
	Routes    []RouteRule
}

// EdgeGate middleware delante de las páginas: redirige a login a quien no tiene sesión
// y a su página de aterrizaje a quien no tiene el rol activo que pide el path.
// Paths fuera de la tabla pasan sin tocar.
func EdgeGate(cfg EdgeGateConfig, profiles projectionReader, resolver *authz.Resolver) fiber.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 800 * time.Millisecond
	}
	if cfg.Routes == nil {
		cfg.Routes = DefaultRoutes()
	}
	return func(c *fiber.Ctx) error {
		path := c.Path()
		rule, covered := matchRoute(cfg.Routes, path)
		if path != "/" && !covered {
			return c.Next()
		}

		ident, authed := sessionIdentity(c, cfg.Token)
		if !authed {
			return c.Redirect(cfg.LoginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
		}
		setIdentity(c, ident)

		if path != "/" && len(rule.Roles) == 0 {
			return c.Next()
		}

		ac, disabled := cheapAccess(c.UserContext(), cfg.Timeout, profiles, resolver, ident)
		if disabled {
			return c.Redirect(cfg.LoginPath + "?reason=disabled")
		}
		if path == "/" {
			return c.Redirect(authz.LandingPath(ac.ActiveRole))
		}
		if ac.IsMasterAdmin || lo.Contains(rule.Roles, ac.ActiveRole) {
			c.Locals(LocalAccess, &ac)
			return c.Next()
		}

		auditDenied(c, authz.Strings(rule.Roles), authz.Strings(ac.Roles))
		return c.Redirect(authz.LandingPath(ac.ActiveRole))
	}
}

// cheapAccess lee la proyección con su propio timeout y resuelve el nivel barato.
// Si la lectura falla se resuelve como el menor privilegio: solo la lista maestra,
// que es configuración, puede elevarlo.
func cheapAccess(ctx context.Context, timeout time.Duration, profiles projectionReader, resolver *authz.Resolver, ident entity.Identity) (authz.AccessContext, bool) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proj, err := profiles.GetAccessProjection(rctx, ident.ID)
	if err != nil {
		log.Warn().Err(err).Str("principal_id", ident.ID).Msg("edge gate: lectura de perfil fallida, se deniega lo privilegiado")
		return resolver.ResolveCheap(ident.Email, nil), false
	}
	if proj != nil && entity.DisabledStatus(proj.AdminStatus) {
		return authz.AccessContext{}, true
	}
	return resolver.ResolveCheap(ident.Email, proj.Stored()), false
}
