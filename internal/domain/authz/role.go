package authz

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Role es una etiqueta del vocabulario cerrado de permisos.
type Role string

// Roles válidos, de mayor a menor privilegio.
const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleRRHH         Role = "rrhh"
	RoleConsultant   Role = "consultant"
	RoleEmployee     Role = "employee"
)

// rank define el orden total de la jerarquía (mayor número = más privilegio).
var rank = map[Role]int{
	RoleSuperAdmin:   5,
	RoleCompanyAdmin: 4,
	RoleRRHH:         3,
	RoleConsultant:   2,
	RoleEmployee:     1,
}

// PrivilegedBundle roles que recibe cualquier cuenta de la lista maestra.
var PrivilegedBundle = []Role{RoleSuperAdmin, RoleCompanyAdmin, RoleRRHH}

// All devuelve el vocabulario completo ordenado de mayor a menor privilegio.
func All() []Role {
	return []Role{RoleSuperAdmin, RoleCompanyAdmin, RoleRRHH, RoleConsultant, RoleEmployee}
}

// ParseRole normaliza y valida un string contra el vocabulario.
// Strings desconocidos se rechazan (ok=false), nunca se aceptan tal cual.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rank[r]; !ok {
		return "", false
	}
	return r, true
}

// ParseRoles convierte una lista de strings descartando los desconocidos.
func ParseRoles(values []string) []Role {
	out := make([]Role, 0, len(values))
	for _, v := range values {
		if r, ok := ParseRole(v); ok {
			out = append(out, r)
		}
	}
	return out
}

// Rank devuelve el nivel del rol; 0 para roles fuera del vocabulario.
func (r Role) Rank() int { return rank[r] }

// Valid informa si el rol pertenece al vocabulario.
func (r Role) Valid() bool { return r.Rank() > 0 }

// HigherThan informa si r tiene más privilegio que other.
func (r Role) HigherThan(other Role) bool { return r.Rank() > other.Rank() }

func (r Role) String() string { return string(r) }

// Normalize deja el conjunto sin duplicados ni roles inválidos, de mayor a menor rango.
func Normalize(roles []Role) []Role {
	out := lo.Uniq(lo.Filter(roles, func(r Role, _ int) bool { return r.Valid() }))
	sort.SliceStable(out, func(i, j int) bool { return out[i].HigherThan(out[j]) })
	return out
}

// Highest devuelve el rol de mayor rango; employee si el conjunto está vacío.
func Highest(roles []Role) Role {
	best := RoleEmployee
	for _, r := range roles {
		if r.HigherThan(best) {
			best = r
		}
	}
	return best
}

// Strings convierte roles a []string (persistencia, logs, metadata).
func Strings(roles []Role) []string {
	return lo.Map(roles, func(r Role, _ int) string { return string(r) })
}

// LandingPath devuelve la página de aterrizaje por defecto para un rol.
func LandingPath(r Role) string {
	switch r {
	case RoleSuperAdmin:
		return "/admin/super"
	case RoleCompanyAdmin:
		return "/admin/company"
	default:
		return "/app"
	}
}
