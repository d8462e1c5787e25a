package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	"github.com/jhoicas/bienestar-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID   = "user_id"
	LocalIdentity = "identity"
	LocalAccess   = "access"
)

// TokenConfig verificación de los access tokens del proveedor de identidad.
type TokenConfig struct {
	Secret string
	Issuer string
	Cookie string // nombre de la cookie de sesión que leen las páginas; vacío = solo header
}

// AuthMiddleware valida el Bearer Token del proveedor y deja la identidad en c.Locals.
func AuthMiddleware(cfg TokenConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		ident, err := identityFromToken(cfg, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		setIdentity(c, ident)
		return c.Next()
	}
}

// sessionIdentity identidad de la petición para páginas: header Bearer o cookie.
// ok=false si no hay token o no es válido.
func sessionIdentity(c *fiber.Ctx, cfg TokenConfig) (entity.Identity, bool) {
	var tokenString string
	if h := c.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		tokenString = strings.TrimSpace(h[7:])
	} else if cfg.Cookie != "" {
		tokenString = c.Cookies(cfg.Cookie)
	}
	if tokenString == "" {
		return entity.Identity{}, false
	}
	ident, err := identityFromToken(cfg, tokenString)
	if err != nil {
		return entity.Identity{}, false
	}
	return ident, true
}

func identityFromToken(cfg TokenConfig, tokenString string) (entity.Identity, error) {
	claims, err := jwt.Parse(cfg.Secret, cfg.Issuer, tokenString)
	if err != nil {
		return entity.Identity{}, err
	}
	return entity.Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		FullName: claims.FullName(),
		Metadata: claims.AppMetadata,
	}, nil
}

func setIdentity(c *fiber.Ctx, ident entity.Identity) {
	c.Locals(LocalUserID, ident.ID)
	c.Locals(LocalIdentity, ident)
}

// GetUserID devuelve el ID del principal (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetIdentity devuelve la identidad verificada del token.
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	ident, ok := c.Locals(LocalIdentity).(entity.Identity)
	return ident, ok
}

// GetAccess devuelve el AccessContext resuelto (después de AccessMiddleware o del edge gate).
func GetAccess(c *fiber.Ctx) *authz.AccessContext {
	ac, _ := c.Locals(LocalAccess).(*authz.AccessContext)
	return ac
}

// GetRole devuelve el rol activo resuelto; vacío si no hay contexto.
func GetRole(c *fiber.Ctx) string {
	if ac := GetAccess(c); ac != nil {
		return ac.ActiveRole.String()
	}
	return ""
}

// GetCompanyID devuelve la empresa del contexto resuelto.
func GetCompanyID(c *fiber.Ctx) string {
	if ac := GetAccess(c); ac != nil {
		return ac.CompanyID
	}
	return ""
}
