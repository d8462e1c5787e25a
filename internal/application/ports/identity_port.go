package ports

import (
	"context"

	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// IdentityDirectory puerto de salida hacia la API administrativa del proveedor de identidad.
// Las llamadas deben recibir un contexto con timeout: el proveedor es externo.
type IdentityDirectory interface {
	// GetIdentity lee el registro actual del principal (nil, nil si no existe).
	GetIdentity(ctx context.Context, id string) (*entity.Identity, error)
	// MirrorAccess escribe rol activo, roles y empresa en la metadata del principal.
	MirrorAccess(ctx context.Context, id string, mirror entity.AccessMirror) error
}
