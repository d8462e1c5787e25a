package repository

import (
	"context"

	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (DIP).
// Las lecturas devuelven (nil, nil) si la fila no existe.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetAccessProjection(ctx context.Context, id string) (*entity.AccessProjection, error)
	// Upsert inserta o reemplaza la fila completa (clave: id). Seguro ante reintentos.
	Upsert(ctx context.Context, profile *entity.Profile) error
}
