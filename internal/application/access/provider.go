package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/jhoicas/bienestar-api/internal/domain/authz"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	"github.com/jhoicas/bienestar-api/internal/domain/repository"
	"github.com/jhoicas/bienestar-api/pkg/logger"
)

// Provider resuelve el AccessContext de cada petición: lee el perfil con un
// timeout propio (distinto del deadline de la petición) y delega en el resolvedor.
type Provider struct {
	profiles repository.ProfileRepository
	resolver *authz.Resolver
	timeout  time.Duration
	log      *logger.Logger
}

// NewProvider construye el provider.
func NewProvider(profiles repository.ProfileRepository, resolver *authz.Resolver, timeout time.Duration, log *logger.Logger) *Provider {
	return &Provider{profiles: profiles, resolver: resolver, timeout: timeout, log: log}
}

// Resolve lee el perfil y devuelve el contexto resuelto.
// Errores: ErrUnauthenticated (identidad inválida), ErrProfileUnavailable (almacén caído o lento),
// ErrAccountDisabled (perfil inactivo o suspendido).
func (p *Provider) Resolve(ctx context.Context, ident entity.Identity) (*authz.AccessContext, error) {
	if !validPrincipalID(ident.ID) {
		return nil, domain.ErrUnauthenticated
	}
	profile, err := readProfile(ctx, p.profiles, p.timeout, ident.ID)
	if err != nil {
		return nil, err
	}
	if profile != nil && entity.DisabledStatus(profile.AdminStatus) {
		return nil, domain.ErrAccountDisabled
	}
	ac := p.resolver.Resolve(authz.Input{
		Email:  ident.Email,
		Hints:  hintsFor(p.log, ident),
		Stored: profile.Stored(),
		Entry:  authz.EntryRequest,
	})
	return &ac, nil
}

// readProfile lectura acotada por timeout; cualquier fallo es ErrProfileUnavailable.
func readProfile(ctx context.Context, profiles repository.ProfileRepository, timeout time.Duration, id string) (*entity.Profile, error) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	profile, err := profiles.GetByID(rctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileUnavailable, err)
	}
	return profile, nil
}

// hintsFor convierte la metadata y deja constancia de los valores descartados.
func hintsFor(log *logger.Logger, ident entity.Identity) authz.Hints {
	h := authz.HintsFromMetadata(ident.Metadata)
	if len(h.Rejected) > 0 {
		log.Principal(ident.ID).Warn().
			Strs("rejected", h.Rejected).
			Msg("metadata de identidad con valores fuera del vocabulario")
	}
	return h
}

func validPrincipalID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
