package http

import (
	"strings"

	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

// RouteRule prefijo de página protegido por el edge gate.
// Roles vacío = basta con estar autenticado (no se lee el perfil).
type RouteRule struct {
	Prefix string
	Roles  []authz.Role
}

// DefaultRoutes tabla de páginas de la aplicación.
func DefaultRoutes() []RouteRule {
	return []RouteRule{
		{Prefix: "/admin/super", Roles: []authz.Role{authz.RoleSuperAdmin}},
		{Prefix: "/admin/company", Roles: []authz.Role{authz.RoleSuperAdmin, authz.RoleCompanyAdmin}},
		// Cualquier otra página bajo /admin queda reservada a super_admin.
		{Prefix: "/admin", Roles: []authz.Role{authz.RoleSuperAdmin}},
		{Prefix: "/rrhh", Roles: []authz.Role{authz.RoleSuperAdmin, authz.RoleCompanyAdmin, authz.RoleRRHH}},
		{Prefix: "/consultant", Roles: []authz.Role{authz.RoleSuperAdmin, authz.RoleConsultant}},
		{Prefix: "/app"},
	}
}

// matchRoute regla de prefijo más largo que cubre el path, respetando segmentos
// ("/app" cubre "/app/x" pero no "/apple").
func matchRoute(rules []RouteRule, path string) (RouteRule, bool) {
	var best RouteRule
	found := false
	for _, r := range rules {
		if path != r.Prefix && !strings.HasPrefix(path, r.Prefix+"/") {
			continue
		}
		if !found || len(r.Prefix) > len(best.Prefix) {
			best, found = r, true
		}
	}
	return best, found
}
