package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// sessionLogin contrato del callback de login. Lo implementa *access.SessionSync.
type sessionLogin interface {
	Login(ctx context.Context, ident entity.Identity) (*authz.AccessContext, error)
}

// AuthHandler callback posterior a la autenticación en el proveedor.
type AuthHandler struct {
	sync sessionLogin
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sync sessionLogin) *AuthHandler {
	return &AuthHandler{sync: sync}
}

// Callback godoc
// @Summary      Sincronizar sesión tras el login
// @Description  Resuelve el acceso con la identidad del token, escribe el perfil y devuelve la página de aterrizaje.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AccessResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/auth/callback [post]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	ident, ok := GetIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no encontrada en el contexto"})
	}
	ac, err := h.sync.Login(c.UserContext(), ident)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAccessResponse(ac))
}
