package access

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bienestar-api/internal/application/dto"
	"github.com/jhoicas/bienestar-api/internal/application/ports"
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	"github.com/jhoicas/bienestar-api/internal/domain/repository"
	"github.com/jhoicas/bienestar-api/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// SyncConfig timeouts de Session Sync.
type SyncConfig struct {
	ProfileTimeout  time.Duration // lectura y escritura del perfil
	IdentityTimeout time.Duration // lectura y espejo en el proveedor
}

// SessionSync escribe el acceso resuelto en el perfil (fuente de verdad) y, en
// cambios de rol y acciones administrativas, lo refleja en la metadata del proveedor.
// Fallar al escribir el perfil es fatal; fallar al reflejar solo se registra.
type SessionSync struct {
	profiles  repository.ProfileRepository
	companies repository.CompanyRepository // opcional
	directory ports.IdentityDirectory      // opcional: sin él no hay espejo ni lectura fresca
	resolver  *authz.Resolver
	cfg       SyncConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewSessionSync construye Session Sync. companies y directory pueden ser nil.
func NewSessionSync(
	profiles repository.ProfileRepository,
	companies repository.CompanyRepository,
	directory ports.IdentityDirectory,
	resolver *authz.Resolver,
	cfg SyncConfig,
	log *logger.Logger,
) *SessionSync {
	return &SessionSync{
		profiles:  profiles,
		companies: companies,
		directory: directory,
		resolver:  resolver,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Login callback de inicio de sesión: lee en paralelo el perfil y el registro fresco
// del proveedor, resuelve como EntryLogin y hace upsert de la fila completa.
func (s *SessionSync) Login(ctx context.Context, ident entity.Identity) (*authz.AccessContext, error) {
	if !validPrincipalID(ident.ID) {
		return nil, domain.ErrUnauthenticated
	}

	plog := s.log.Principal(ident.ID)
	var profile *entity.Profile
	fresh := ident

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := readProfile(gctx, s.profiles, s.cfg.ProfileTimeout, ident.ID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if s.directory != nil {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, s.cfg.IdentityTimeout)
			defer cancel()
			rec, err := s.directory.GetIdentity(rctx, ident.ID)
			if err != nil {
				// El token ya trae una copia de la metadata: se sigue con ella.
				plog.Warn().Err(err).Msg("lectura de identidad en el proveedor")
				return nil
			}
			if rec != nil {
				fresh = mergeIdentity(ident, *rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if profile != nil && entity.DisabledStatus(profile.AdminStatus) {
		return nil, domain.ErrAccountDisabled
	}

	hints := hintsFor(s.log, fresh)
	s.vetCompanyHint(ctx, plog, &hints, profile)
	ac := s.resolver.Resolve(authz.Input{
		Email:  fresh.Email,
		Hints:  hints,
		Stored: profile.Stored(),
		Entry:  authz.EntryLogin,
	})

	status := entity.AdminStatusActive
	if profile != nil && profile.AdminStatus != "" && profile.AdminStatus != entity.AdminStatusInvited {
		status = profile.AdminStatus
	}
	row := s.buildRow(profile, fresh, ac, status)
	if err := s.write(ctx, row); err != nil {
		return nil, err
	}

	plog.Info().
		Str("active_role", ac.ActiveRole.String()).
		Bool("master", ac.IsMasterAdmin).
		Msg("sesión sincronizada")
	return &ac, nil
}

// SwitchRole cambia el rol activo. El objetivo se valida contra los roles resueltos
// en el servidor; si no pertenece se devuelve AuthorizationError sin escribir nada.
func (s *SessionSync) SwitchRole(ctx context.Context, ident entity.Identity, target string) (*authz.AccessContext, error) {
	if !validPrincipalID(ident.ID) {
		return nil, domain.ErrUnauthenticated
	}
	role, ok := authz.ParseRole(target)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	profile, err := readProfile(ctx, s.profiles, s.cfg.ProfileTimeout, ident.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil && entity.DisabledStatus(profile.AdminStatus) {
		return nil, domain.ErrAccountDisabled
	}

	plog := s.log.Principal(ident.ID)
	hints := hintsFor(s.log, ident)
	s.vetCompanyHint(ctx, plog, &hints, profile)
	in := authz.Input{
		Email:  ident.Email,
		Hints:  hints,
		Stored: profile.Stored(),
		Entry:  authz.EntryRequest,
	}
	current := s.resolver.Resolve(in)
	if !current.Has(role) {
		plog.Warn().
			Str("requested", role.String()).
			Strs("held", authz.Strings(current.Roles)).
			Msg("cambio de rol rechazado")
		return nil, &domain.AuthorizationError{
			Required: []string{role.String()},
			Held:     authz.Strings(current.Roles),
		}
	}

	in.Entry, in.Requested = authz.EntrySwitch, role
	next := s.resolver.Resolve(in)
	if next.ActiveRole != role {
		// Lista maestra: solo se baja a un rol del paquete privilegiado.
		plog.Warn().
			Str("requested", role.String()).
			Str("resolved", next.ActiveRole.String()).
			Msg("cambio de rol rechazado")
		return nil, &domain.AuthorizationError{
			Required: []string{role.String()},
			Held:     authz.Strings(next.Roles),
		}
	}

	status := entity.AdminStatusActive
	if profile != nil && profile.AdminStatus != "" {
		status = profile.AdminStatus
	}
	row := s.buildRow(profile, ident, next, status)
	if err := s.write(ctx, row); err != nil {
		return nil, err
	}
	s.mirror(ctx, ident.ID, next)
	return &next, nil
}

// ForceUpdate acción administrativa sobre el acceso de otro perfil.
// company_admin solo gestiona perfiles de su empresa y no puede conceder super_admin.
func (s *SessionSync) ForceUpdate(ctx context.Context, actor *authz.AccessContext, targetID string, in dto.ForceUpdateRequest) (*authz.AccessContext, error) {
	if err := RequireCompanyAdministration(actor); err != nil {
		return nil, err
	}
	if !validPrincipalID(targetID) {
		return nil, fmt.Errorf("%w: id de perfil inválido", domain.ErrInvalidInput)
	}

	target, err := readProfile(ctx, s.profiles, s.cfg.ProfileTimeout, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrProfileNotFound
	}

	updated := *target
	if in.Roles != nil {
		parsed := authz.ParseRoles(in.Roles)
		if len(parsed) != len(in.Roles) {
			return nil, domain.ErrInvalidRole
		}
		updated.Roles = authz.Strings(authz.Normalize(append(parsed, authz.RoleEmployee)))
		updated.Role = authz.Highest(parsed).String()
	}
	var requested authz.Role
	if in.ActiveRole != "" {
		r, ok := authz.ParseRole(in.ActiveRole)
		if !ok {
			return nil, domain.ErrInvalidRole
		}
		requested = r
		updated.ActiveRole = r.String()
	}
	if in.CompanyID != nil {
		if *in.CompanyID == "" {
			updated.CompanyID = nil
		} else {
			cid := *in.CompanyID
			if err := s.checkCompany(ctx, cid); err != nil {
				return nil, err
			}
			updated.CompanyID = &cid
		}
	}
	if in.AdminStatus != "" {
		if !entity.ValidAdminStatus(in.AdminStatus) {
			return nil, fmt.Errorf("%w: admin_status", domain.ErrInvalidInput)
		}
		updated.AdminStatus = in.AdminStatus
	}

	if err := checkTenantScope(actor, target, &updated); err != nil {
		return nil, err
	}

	input := authz.Input{Email: updated.Email, Stored: updated.Stored(), Entry: authz.EntryRequest}
	if requested != "" {
		input.Entry, input.Requested = authz.EntrySwitch, requested
	}
	ac := s.resolver.Resolve(input)

	row := s.buildRow(&updated, entity.Identity{ID: updated.ID, Email: updated.Email, FullName: updated.FullName}, ac, updated.AdminStatus)
	row.LastActiveAt = target.LastActiveAt
	if err := s.write(ctx, row); err != nil {
		return nil, err
	}
	s.mirror(ctx, updated.ID, ac)

	s.log.Principal(updated.ID).Info().
		Strs("roles", row.Roles).
		Str("active_role", row.ActiveRole).
		Str("admin_status", row.AdminStatus).
		Msg("acceso actualizado por administración")
	return &ac, nil
}

// checkTenantScope límites de un company_admin que no es super_admin.
func checkTenantScope(actor *authz.AccessContext, before, after *entity.Profile) error {
	if actor.IsMasterAdmin || actor.Has(authz.RoleSuperAdmin) {
		return nil
	}
	deny := &domain.AuthorizationError{
		Required: []string{authz.RoleSuperAdmin.String()},
		Held:     authz.Strings(actor.Roles),
	}
	if actor.CompanyID == "" {
		return deny
	}
	if before.CompanyID == nil || *before.CompanyID != actor.CompanyID {
		return deny
	}
	if after.CompanyID == nil || *after.CompanyID != actor.CompanyID {
		return deny
	}
	for _, r := range authz.ParseRoles(after.Roles) {
		if r == authz.RoleSuperAdmin {
			return deny
		}
	}
	return nil
}

// vetCompanyHint descarta la empresa sugerida por la metadata si no existe o no está
// activa; gana la persistida. Solo consulta cuando la pista cambia la empresa.
func (s *SessionSync) vetCompanyHint(ctx context.Context, log *logger.Logger, h *authz.Hints, profile *entity.Profile) {
	if h.CompanyID == "" {
		return
	}
	if profile != nil && profile.CompanyID != nil && *profile.CompanyID == h.CompanyID {
		return
	}
	if err := s.checkCompany(ctx, h.CompanyID); err != nil {
		log.Warn().
			Err(err).
			Str("company_id", h.CompanyID).
			Msg("empresa de la metadata descartada")
		h.CompanyID = ""
	}
}

func (s *SessionSync) checkCompany(ctx context.Context, id string) error {
	if !validPrincipalID(id) {
		return fmt.Errorf("%w: company_id inválido", domain.ErrInvalidInput)
	}
	if s.companies == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(ctx, s.cfg.ProfileTimeout)
	defer cancel()
	company, err := s.companies.GetByID(rctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProfileUnavailable, err)
	}
	if !company.Active() {
		return fmt.Errorf("%w: empresa inexistente o inactiva", domain.ErrInvalidInput)
	}
	return nil
}

// buildRow fila completa a escribir a partir del contexto resuelto. Se persisten los
// roles propios; active_role puede quedar fuera de ellos (maestro) y el clamp lo corrige
// al resolver si la cuenta sale de la lista maestra.
func (s *SessionSync) buildRow(existing *entity.Profile, ident entity.Identity, ac authz.AccessContext, status string) *entity.Profile {
	now := s.now().UTC()
	row := &entity.Profile{
		ID:           ident.ID,
		Email:        ident.Email,
		FullName:     ident.FullName,
		Role:         authz.Highest(ac.OwnRoles).String(),
		Roles:        authz.Strings(ac.OwnRoles),
		ActiveRole:   ac.ActiveRole.String(),
		AdminStatus:  status,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if ac.CompanyID != "" {
		cid := ac.CompanyID
		row.CompanyID = &cid
	}
	if existing != nil {
		row.CreatedAt = existing.CreatedAt
		if row.Email == "" {
			row.Email = existing.Email
		}
		if row.FullName == "" {
			row.FullName = existing.FullName
		}
	}
	return row
}

func (s *SessionSync) write(ctx context.Context, row *entity.Profile) error {
	wctx, cancel := context.WithTimeout(ctx, s.cfg.ProfileTimeout)
	defer cancel()
	if err := s.profiles.Upsert(wctx, row); err != nil {
		return fmt.Errorf("sincronizar perfil: %w", err)
	}
	return nil
}

// mirror escritura doble de mejor esfuerzo: el perfil ya quedó escrito.
func (s *SessionSync) mirror(ctx context.Context, id string, ac authz.AccessContext) {
	if s.directory == nil {
		return
	}
	mctx, cancel := context.WithTimeout(ctx, s.cfg.IdentityTimeout)
	defer cancel()
	err := s.directory.MirrorAccess(mctx, id, entity.AccessMirror{
		Role:       authz.Highest(ac.OwnRoles).String(),
		ActiveRole: ac.ActiveRole.String(),
		Roles:      authz.Strings(ac.OwnRoles),
		CompanyID:  ac.CompanyID,
	})
	if err != nil {
		s.log.Principal(id).Warn().Err(err).Msg("espejo de acceso en el proveedor de identidad")
	}
}

// mergeIdentity el registro del proveedor manda sobre la copia del token.
func mergeIdentity(token, rec entity.Identity) entity.Identity {
	out := token
	if rec.Email != "" {
		out.Email = rec.Email
	}
	if rec.FullName != "" {
		out.FullName = rec.FullName
	}
	if rec.Metadata != nil {
		out.Metadata = rec.Metadata
	}
	return out
}
