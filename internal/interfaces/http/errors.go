package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// respondError traduce errores de dominio a {code, message}. Los mensajes de 403 son
// genéricos: los roles requeridos y los que tiene el principal solo van al log.
func respondError(c *fiber.Ctx, err error) error {
	var authErr *domain.AuthorizationError
	switch {
	case errors.As(err, &authErr):
		auditDenied(c, authErr.Required, authErr.Held)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta acción"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta acción"})
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "sesión inválida"})
	case errors.Is(err, domain.ErrAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCOUNT_DISABLED", Message: "la cuenta está inactiva o suspendida"})
	case errors.Is(err, domain.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ROLE", Message: "rol desconocido"})
	case errors.Is(err, domain.ErrInvalidInput):
		// El detalle puede traer texto interno (capas, restricciones SQL): solo al log.
		log.Warn().Err(err).Str("path", c.Path()).Msg("petición rechazada por validación")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "perfil no encontrado"})
	case errors.Is(err, domain.ErrProfileUnavailable):
		log.Error().Err(err).Str("path", c.Path()).Msg("almacén de perfiles no disponible")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PROFILE_UNAVAILABLE", Message: "servicio no disponible, intente más tarde"})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

// auditDenied registro de auditoría de un acceso denegado.
func auditDenied(c *fiber.Ctx, required, held []string) {
	log.Warn().
		Str("principal_id", GetUserID(c)).
		Str("path", c.Path()).
		Strs("required", required).
		Strs("held", held).
		Msg("acceso denegado")
}
