package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

// PageView descriptor que consume el frontend para pintar una página ya autorizada.
type PageView struct {
	View       string `json:"view"`
	ActiveRole string `json:"active_role,omitempty"`
	CompanyID  string `json:"company_id,omitempty"`
	Landing    string `json:"landing,omitempty"`
	Next       string `json:"next,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// LoginPage descriptor de la página de login; conserva el destino para reanudar.
func LoginPage(c *fiber.Ctx) error {
	return c.JSON(PageView{
		View:   "login",
		Next:   c.Query("next"),
		Reason: c.Query("reason"),
	})
}

// Page descriptor de una página protegida. El edge gate ya autorizó la petición.
func Page(c *fiber.Ctx) error {
	view := PageView{View: c.Path()}
	if ac := GetAccess(c); ac != nil {
		view.ActiveRole = ac.ActiveRole.String()
		view.CompanyID = ac.CompanyID
		view.Landing = authz.LandingPath(ac.ActiveRole)
	}
	return c.JSON(view)
}
