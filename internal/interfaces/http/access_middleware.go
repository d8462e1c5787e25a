package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/access"
	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// accessResolver es el contrato mínimo que necesita el middleware para resolver el acceso.
// Lo implementa *access.Provider.
type accessResolver interface {
	Resolve(ctx context.Context, ident entity.Identity) (*authz.AccessContext, error)
}

// AccessMiddleware resuelve el AccessContext de la petición y lo deja en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware (necesita la identidad).
//
// Comportamiento:
//   - 503 Service Unavailable → el almacén de perfiles no respondió a tiempo.
//   - 403 ACCOUNT_DISABLED → perfil inactivo o suspendido.
func AccessMiddleware(resolver accessResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no encontrada en el contexto"})
		}
		ac, err := resolver.Resolve(c.UserContext(), ident)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalAccess, ac)
		return c.Next()
	}
}

// RequireRole middleware de autorización: pasa si el principal está en la lista maestra
// o tiene alguno de los roles. Debe usarse DESPUÉS de AccessMiddleware.
func RequireRole(allowed ...authz.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.RequireRole(GetAccess(c), allowed...); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}
