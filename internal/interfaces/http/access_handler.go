package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// accessWriter operaciones de Session Sync que expone la API. Lo implementa *access.SessionSync.
type accessWriter interface {
	SwitchRole(ctx context.Context, ident entity.Identity, target string) (*authz.AccessContext, error)
	ForceUpdate(ctx context.Context, actor *authz.AccessContext, targetID string, in dto.ForceUpdateRequest) (*authz.AccessContext, error)
}

// AccessHandler consulta y cambio del acceso del principal, y overrides administrativos.
type AccessHandler struct {
	sync accessWriter
}

// NewAccessHandler construye el handler.
func NewAccessHandler(sync accessWriter) *AccessHandler {
	return &AccessHandler{sync: sync}
}

// Me godoc
// @Summary      Acceso resuelto del principal
// @Tags         access
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AccessResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/access/me [get]
func (h *AccessHandler) Me(c *fiber.Ctx) error {
	ac := GetAccess(c)
	if ac == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "acceso no resuelto"})
	}
	return c.JSON(dto.NewAccessResponse(ac))
}

// Switch godoc
// @Summary      Cambiar el rol activo
// @Tags         access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SwitchRoleRequest  true  "rol destino"
// @Success      200   {object}  dto.AccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/access/switch [post]
func (h *AccessHandler) Switch(c *fiber.Ctx) error {
	ident, ok := GetIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no encontrada en el contexto"})
	}
	var in dto.SwitchRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Role) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role es requerido"})
	}
	ac, err := h.sync.SwitchRole(c.UserContext(), ident, in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAccessResponse(ac))
}

// ForceUpdate godoc
// @Summary      Actualizar el acceso de un perfil
// @Description  super_admin gestiona cualquier perfil; company_admin solo los de su empresa y sin conceder super_admin.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID del perfil"
// @Param        body  body  dto.ForceUpdateRequest  true  "roles, active_role, company_id, admin_status"
// @Success      200   {object}  dto.AccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/profiles/{id}/access [put]
func (h *AccessHandler) ForceUpdate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ForceUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ac, err := h.sync.ForceUpdate(c.UserContext(), GetAccess(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewAccessResponse(ac))
}
