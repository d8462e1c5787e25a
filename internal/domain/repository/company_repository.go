package repository

import (
	"context"

	"github.com/jhoicas/bienestar-api/internal/domain/entity"
)

// CompanyRepository puerto de lectura de empresas (tenants).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
