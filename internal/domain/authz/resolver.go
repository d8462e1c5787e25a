// Package authz resuelve, para un principal autenticado, qué roles tiene, cuál está
// activo y qué empresa aplica, combinando la identidad del proveedor, el perfil
// persistido y la lista maestra. No hace I/O.
package authz

import (
	"github.com/samber/lo"
)

// AccessContext resultado de una resolución. Vive lo que dura la petición;
// Session Sync lo usa como entrada para escribir el perfil.
type AccessContext struct {
	Roles         []Role `json:"roles"`
	PrimaryRole   Role   `json:"primary_role"`
	ActiveRole    Role   `json:"active_role"`
	CompanyID     string `json:"company_id,omitempty"`
	IsMasterAdmin bool   `json:"is_master_admin"`

	// OwnRoles roles del principal sin el paquete de la lista maestra: lo único
	// que se persiste. La lista maestra se vuelve a aplicar en cada resolución.
	OwnRoles []Role `json:"-"`
}

// Has informa si el contexto incluye el rol.
func (c AccessContext) Has(r Role) bool {
	return lo.Contains(c.Roles, r)
}

// HasAny informa si el contexto incluye alguno de los roles.
func (c AccessContext) HasAny(roles ...Role) bool {
	return len(lo.Intersect(c.Roles, roles)) > 0
}

// Entry punto de entrada que dispara la resolución.
type Entry int

const (
	// EntryRequest lectura por petición (provider, edge gate).
	EntryRequest Entry = iota
	// EntryLogin callback de inicio de sesión.
	EntryLogin
	// EntrySwitch cambio de rol pedido por el usuario.
	EntrySwitch
)

// Stored acceso persistido en el perfil, tal como viene de la base (puede estar corrupto).
type Stored struct {
	Roles      []string
	ActiveRole string
	LegacyRole string
	CompanyID  string
}

// Input entrada completa del resolvedor.
type Input struct {
	Email     string
	Hints     Hints
	Stored    *Stored // nil si el principal no tiene perfil
	Entry     Entry
	Requested Role // solo EntrySwitch
}

type source int

const (
	sourceDefault source = iota
	sourcePersisted
	sourceIntent
)

// Resolver combina las fuentes según las reglas de precedencia.
type Resolver struct {
	allowlist *Allowlist
}

// NewResolver construye el resolvedor con la lista maestra inyectada.
func NewResolver(allowlist *Allowlist) *Resolver {
	return &Resolver{allowlist: allowlist}
}

// Allowlist devuelve la lista maestra con la que se construyó el resolvedor.
func (r *Resolver) Allowlist() *Allowlist { return r.allowlist }

// Resolve calcula el AccessContext canónico. Es determinista: mismas entradas,
// mismo resultado, incluido el orden de Roles.
func (r *Resolver) Resolve(in Input) AccessContext {
	master := r.allowlist.IsMasterAdmin(in.Email)

	held := make([]Role, 0, 8)
	if in.Stored != nil {
		held = append(held, ParseRoles(in.Stored.Roles)...)
		if lr, ok := ParseRole(in.Stored.LegacyRole); ok {
			held = append(held, lr)
		}
	}
	held = append(held, in.Hints.HeldRoles()...)
	own := Normalize(append(held, RoleEmployee))
	if master {
		held = append(held, PrivilegedBundle...)
	}
	held = append(held, RoleEmployee)

	roles := Normalize(held)
	primary := Highest(roles)

	var persisted Role
	if in.Stored != nil {
		persisted, _ = ParseRole(in.Stored.ActiveRole)
	}
	intent := in.Hints.Intent()

	cand, src := primary, sourceDefault
	switch in.Entry {
	case EntrySwitch:
		cand, src = in.Requested, sourceIntent
	case EntryLogin:
		switch {
		case intent != "":
			cand, src = intent, sourceIntent
		case persisted != "":
			cand, src = persisted, sourcePersisted
		}
	default:
		switch {
		case persisted != "":
			cand, src = persisted, sourcePersisted
		case intent != "":
			cand, src = intent, sourceIntent
		}
	}

	companyID := in.Hints.CompanyID
	if companyID == "" && in.Stored != nil {
		companyID = in.Stored.CompanyID
	}

	return AccessContext{
		Roles:         roles,
		PrimaryRole:   primary,
		ActiveRole:    settle(roles, primary, cand, src, master, in.Entry),
		CompanyID:     companyID,
		IsMasterAdmin: master,
		OwnRoles:      own,
	}
}

// ResolveCheap nivel barato para el edge gate: solo la proyección de roles del
// perfil y la lista maestra, sin metadata. Comparte el núcleo con Resolve.
func (r *Resolver) ResolveCheap(email string, stored *Stored) AccessContext {
	return r.Resolve(Input{Email: email, Stored: stored, Entry: EntryRequest})
}

// settle aplica las correcciones y el clamp de seguridad sobre el candidato.
func settle(roles []Role, primary, cand Role, src source, master bool, entry Entry) Role {
	// Un admin no aterriza en la vista de employee salvo que lo pida en un cambio de rol.
	if entry != EntrySwitch && cand == RoleEmployee && primary.HigherThan(RoleEmployee) {
		cand = primary
	}

	if master {
		chosen := entry != EntryLogin &&
			src != sourceDefault &&
			cand != RoleSuperAdmin &&
			lo.Contains(PrivilegedBundle, cand)
		if !chosen {
			cand = RoleSuperAdmin
		}
	}

	// Clamp: siempre el último paso, sin condiciones.
	if !lo.Contains(roles, cand) {
		cand = primary
	}
	return cand
}
