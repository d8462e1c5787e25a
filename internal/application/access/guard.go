package access

import (
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

// Conjuntos fijos usados por los wrappers.
var (
	CompanyAdministrationRoles = []authz.Role{authz.RoleSuperAdmin, authz.RoleCompanyAdmin}
	WellbeingStaffRoles        = []authz.Role{authz.RoleSuperAdmin, authz.RoleCompanyAdmin, authz.RoleRRHH}
)

// RequireRole pasa si el principal está en la lista maestra o tiene alguno de los roles.
// Si no, devuelve *domain.AuthorizationError con lo requerido y lo que tiene.
func RequireRole(ac *authz.AccessContext, allowed ...authz.Role) error {
	if ac == nil {
		return domain.ErrUnauthenticated
	}
	if ac.IsMasterAdmin || ac.HasAny(allowed...) {
		return nil
	}
	return &domain.AuthorizationError{
		Required: authz.Strings(allowed),
		Held:     authz.Strings(ac.Roles),
	}
}

// CanAccess misma regla que RequireRole, sin error.
func CanAccess(ac *authz.AccessContext, allowed ...authz.Role) bool {
	return RequireRole(ac, allowed...) == nil
}

// RequireSuperAdmin solo super_admin (o lista maestra).
func RequireSuperAdmin(ac *authz.AccessContext) error {
	return RequireRole(ac, authz.RoleSuperAdmin)
}

// RequireCompanyAdministration roles con capacidad de administrar empresas.
func RequireCompanyAdministration(ac *authz.AccessContext) error {
	return RequireRole(ac, CompanyAdministrationRoles...)
}

// RequireWellbeingStaff roles que ven resultados de bienestar de la empresa.
func RequireWellbeingStaff(ac *authz.AccessContext) error {
	return RequireRole(ac, WellbeingStaffRoles...)
}
