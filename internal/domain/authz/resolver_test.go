package authz_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

const masterEmail = "master@x.com"

func newResolver() *authz.Resolver {
	return authz.NewResolver(authz.NewAllowlist(masterEmail))
}

// inputs recorre combinaciones de perfil, metadata, entrada y lista maestra,
// incluidos valores corruptos.
func inputs() []authz.Input {
	storedRoles := [][]string{
		nil,
		{"employee"},
		{"company_admin", "employee"},
		{"rrhh", "consultant"},
		{"super_admin"},
		{"bogus", "rrhh"},
	}
	scalars := []string{"", "employee", "rrhh", "company_admin", "super_admin", "consultant", "bogus"}
	metas := []map[string]any{
		nil,
		{"role": "rrhh"},
		{"active_role": "company_admin"},
		{"roles": []any{"consultant"}, "active_role": "consultant"},
		{"role": "super_admin", "active_role": "employee"},
		{"active_role": "owner"},
	}
	emails := []string{"a@x.com", masterEmail}
	entries := []authz.Entry{authz.EntryRequest, authz.EntryLogin, authz.EntrySwitch}

	var out []authz.Input
	for _, roles := range storedRoles {
		for _, active := range scalars {
			for _, legacy := range []string{"", "consultant"} {
				for _, md := range metas {
					for _, email := range emails {
						for _, entry := range entries {
							in := authz.Input{
								Email: email,
								Hints: authz.HintsFromMetadata(md),
								Entry: entry,
							}
							if roles != nil || active != "" {
								in.Stored = &authz.Stored{Roles: roles, ActiveRole: active, LegacyRole: legacy}
							}
							if entry == authz.EntrySwitch {
								for _, r := range authz.All() {
									sw := in
									sw.Requested = r
									out = append(out, sw)
								}
								continue
							}
							out = append(out, in)
						}
					}
				}
			}
		}
	}
	return out
}

func TestResolve_InvariantesParaTodaEntrada(t *testing.T) {
	r := newResolver()
	for i, in := range inputs() {
		ac := r.Resolve(in)
		label := fmt.Sprintf("caso %d: %+v", i, in)

		require.NotEmpty(t, ac.Roles, label)
		assert.Contains(t, ac.Roles, authz.RoleEmployee, label)
		assert.Contains(t, ac.Roles, ac.ActiveRole, label)
		assert.Equal(t, authz.Highest(ac.Roles), ac.PrimaryRole, label)
		assert.Equal(t, authz.Normalize(ac.Roles), ac.Roles, "roles ordenados y sin duplicados: "+label)

		if in.Email == masterEmail {
			assert.True(t, ac.IsMasterAdmin, label)
			assert.Contains(t, ac.Roles, authz.RoleSuperAdmin, label)
			if in.Entry == authz.EntryLogin {
				assert.Equal(t, authz.RoleSuperAdmin, ac.ActiveRole, label)
			}
		}

		assert.Equal(t, ac, r.Resolve(in), "idempotencia: "+label)
	}
}

func TestResolve_PerfilNuevoSinMetadata(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{Email: "a@x.com", Hints: authz.HintsFromMetadata(map[string]any{}), Entry: authz.EntryLogin})

	assert.Equal(t, authz.AccessContext{
		Roles:         []authz.Role{authz.RoleEmployee},
		PrimaryRole:   authz.RoleEmployee,
		ActiveRole:    authz.RoleEmployee,
		IsMasterAdmin: false,
		OwnRoles:      []authz.Role{authz.RoleEmployee},
	}, ac)
}

func TestResolve_MaestroConPerfilDeEmployee(t *testing.T) {
	stored := &authz.Stored{Roles: []string{"employee"}, ActiveRole: "employee"}
	for _, entry := range []authz.Entry{authz.EntryLogin, authz.EntryRequest} {
		ac := newResolver().Resolve(authz.Input{Email: masterEmail, Stored: stored, Entry: entry})

		assert.Subset(t, ac.Roles, []authz.Role{authz.RoleSuperAdmin, authz.RoleCompanyAdmin, authz.RoleEmployee})
		assert.Equal(t, authz.RoleSuperAdmin, ac.ActiveRole)
		assert.Equal(t, authz.RoleSuperAdmin, ac.PrimaryRole)
		assert.True(t, ac.IsMasterAdmin)
	}
}

func TestResolve_MaestroIgnoraMayusculasYEspacios(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{Email: "  Master@X.com", Entry: authz.EntryRequest})
	assert.True(t, ac.IsMasterAdmin)
	assert.Equal(t, authz.RoleSuperAdmin, ac.ActiveRole)
}

func TestResolve_MaestroEligeRolInferiorYLoConserva(t *testing.T) {
	r := newResolver()
	switched := r.Resolve(authz.Input{Email: masterEmail, Entry: authz.EntrySwitch, Requested: authz.RoleCompanyAdmin})
	require.Equal(t, authz.RoleCompanyAdmin, switched.ActiveRole)

	stored := &authz.Stored{Roles: authz.Strings(switched.OwnRoles), ActiveRole: switched.ActiveRole.String()}
	next := r.Resolve(authz.Input{Email: masterEmail, Stored: stored, Entry: authz.EntryRequest})
	assert.Equal(t, authz.RoleCompanyAdmin, next.ActiveRole)

	// Un login nuevo vuelve a super_admin.
	login := r.Resolve(authz.Input{Email: masterEmail, Stored: stored, Entry: authz.EntryLogin})
	assert.Equal(t, authz.RoleSuperAdmin, login.ActiveRole)
}

func TestResolve_OwnRolesExcluyePaqueteMaestro(t *testing.T) {
	stored := &authz.Stored{Roles: []string{"consultant", "employee"}, ActiveRole: "consultant"}
	ac := newResolver().Resolve(authz.Input{Email: masterEmail, Stored: stored, Entry: authz.EntryLogin})

	assert.Contains(t, ac.Roles, authz.RoleSuperAdmin)
	assert.Equal(t, []authz.Role{authz.RoleConsultant, authz.RoleEmployee}, ac.OwnRoles)

	// Fuera de la lista maestra, lo persistido ya no concede el paquete.
	persisted := &authz.Stored{Roles: authz.Strings(ac.OwnRoles), ActiveRole: ac.ActiveRole.String()}
	after := authz.NewResolver(authz.NewAllowlist()).ResolveCheap(masterEmail, persisted)
	assert.False(t, after.IsMasterAdmin)
	assert.Equal(t, []authz.Role{authz.RoleConsultant, authz.RoleEmployee}, after.Roles)
	assert.Equal(t, authz.RoleConsultant, after.ActiveRole)
}

func TestResolve_MaestroNoBajaAEmployee(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{Email: masterEmail, Entry: authz.EntrySwitch, Requested: authz.RoleEmployee})
	assert.Equal(t, authz.RoleSuperAdmin, ac.ActiveRole)
}

func TestResolve_CambioLuegoLectura(t *testing.T) {
	r := newResolver()
	stored := &authz.Stored{Roles: []string{"company_admin", "rrhh", "consultant", "employee"}, ActiveRole: "company_admin"}
	// Metadata con una intención vieja que no debe ganar sobre el perfil.
	stale := authz.HintsFromMetadata(map[string]any{"active_role": "company_admin"})

	for _, target := range []authz.Role{authz.RoleCompanyAdmin, authz.RoleRRHH, authz.RoleConsultant} {
		switched := r.Resolve(authz.Input{Email: "a@x.com", Hints: stale, Stored: stored, Entry: authz.EntrySwitch, Requested: target})
		require.Equal(t, target, switched.ActiveRole)

		persisted := &authz.Stored{Roles: authz.Strings(switched.Roles), ActiveRole: switched.ActiveRole.String(), LegacyRole: switched.PrimaryRole.String()}
		next := r.Resolve(authz.Input{Email: "a@x.com", Hints: stale, Stored: persisted, Entry: authz.EntryRequest})
		assert.Equal(t, target, next.ActiveRole, "tras cambiar a %s", target)
	}
}

func TestResolve_ClampActiveRoleCorrupto(t *testing.T) {
	r := newResolver()
	for _, corrupt := range []string{"super_admin", "rrhh", "owner"} {
		ac := r.Resolve(authz.Input{
			Email:  "a@x.com",
			Stored: &authz.Stored{Roles: []string{"consultant", "employee"}, ActiveRole: corrupt},
			Entry:  authz.EntryRequest,
		})
		assert.Equal(t, ac.PrimaryRole, ac.ActiveRole, "active_role=%s", corrupt)
		assert.Equal(t, authz.RoleConsultant, ac.ActiveRole)
	}
}

func TestResolve_SwitchARolNoPoseidoSeRecorta(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{
		Email:     "a@x.com",
		Stored:    &authz.Stored{Roles: []string{"rrhh", "employee"}, ActiveRole: "rrhh"},
		Entry:     authz.EntrySwitch,
		Requested: authz.RoleSuperAdmin,
	})
	assert.Equal(t, authz.RoleRRHH, ac.ActiveRole)
	assert.NotContains(t, ac.Roles, authz.RoleSuperAdmin)
}

func TestResolve_CorreccionAdminPorDefecto(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{
		Email:  "a@x.com",
		Stored: &authz.Stored{Roles: []string{"company_admin", "employee"}, ActiveRole: "employee"},
		Entry:  authz.EntryRequest,
	})
	assert.Equal(t, authz.RoleCompanyAdmin, ac.ActiveRole)
}

func TestResolve_MetadataSeUneSinSustituir(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{
		Email:  "a@x.com",
		Hints:  authz.HintsFromMetadata(map[string]any{"role": "consultant"}),
		Stored: &authz.Stored{Roles: []string{"rrhh", "employee"}, ActiveRole: "rrhh"},
		Entry:  authz.EntryRequest,
	})
	assert.Equal(t, []authz.Role{authz.RoleRRHH, authz.RoleConsultant, authz.RoleEmployee}, ac.Roles)
	assert.Equal(t, authz.RoleRRHH, ac.ActiveRole)
}

func TestResolve_IntencionDeLoginGanaSobrePerfil(t *testing.T) {
	ac := newResolver().Resolve(authz.Input{
		Email:  "a@x.com",
		Hints:  authz.HintsFromMetadata(map[string]any{"active_role": "consultant"}),
		Stored: &authz.Stored{Roles: []string{"rrhh", "consultant", "employee"}, ActiveRole: "rrhh"},
		Entry:  authz.EntryLogin,
	})
	assert.Equal(t, authz.RoleConsultant, ac.ActiveRole)
}

func TestResolve_CompanyID(t *testing.T) {
	r := newResolver()
	stored := &authz.Stored{Roles: []string{"employee"}, CompanyID: "c-db"}

	ac := r.Resolve(authz.Input{Email: "a@x.com", Stored: stored})
	assert.Equal(t, "c-db", ac.CompanyID)

	const hinted = "5f0c2a8e-1d3b-4c6a-9e7f-0a1b2c3d4e5f"
	ac = r.Resolve(authz.Input{Email: "a@x.com", Stored: stored, Hints: authz.HintsFromMetadata(map[string]any{"company_id": hinted})})
	assert.Equal(t, hinted, ac.CompanyID)

	ac = r.Resolve(authz.Input{Email: "a@x.com", Stored: stored, Hints: authz.HintsFromMetadata(map[string]any{"company_id": "acme; not a uuid"})})
	assert.Equal(t, "c-db", ac.CompanyID)

	ac = r.Resolve(authz.Input{Email: "a@x.com"})
	assert.Empty(t, ac.CompanyID)
}

func TestResolveCheap_MismoNucleoQueResolve(t *testing.T) {
	r := newResolver()
	stored := &authz.Stored{Roles: []string{"rrhh", "employee"}, ActiveRole: "super_admin"}

	cheap := r.ResolveCheap("a@x.com", stored)
	full := r.Resolve(authz.Input{Email: "a@x.com", Stored: stored, Entry: authz.EntryRequest})
	assert.Equal(t, full, cheap)
	assert.Equal(t, authz.RoleRRHH, cheap.ActiveRole)

	master := r.ResolveCheap(masterEmail, nil)
	assert.True(t, master.IsMasterAdmin)
	assert.Equal(t, authz.RoleSuperAdmin, master.ActiveRole)
}
