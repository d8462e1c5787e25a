package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/bienestar-api/internal/domain"
	"github.com/jhoicas/bienestar-api/internal/domain/entity"
	"github.com/jhoicas/bienestar-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// GetByID obtiene el perfil completo.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	const query = `
		SELECT id, email, full_name, role, roles, active_role, company_id, admin_status,
		       last_active_at, created_at, updated_at
		FROM profiles WHERE id = $1`
	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Role, &p.Roles, &p.ActiveRole, &p.CompanyID, &p.AdminStatus,
		&p.LastActiveAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// GetAccessProjection lee solo las columnas de rol (camino caliente del edge gate).
func (r *ProfileRepo) GetAccessProjection(ctx context.Context, id string) (*entity.AccessProjection, error) {
	const query = `SELECT roles, active_role, role, admin_status FROM profiles WHERE id = $1`
	var p entity.AccessProjection
	if err := r.pool.QueryRow(ctx, query, id).Scan(&p.Roles, &p.ActiveRole, &p.Role, &p.AdminStatus); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access projection: %w", err)
	}
	return &p, nil
}

// Upsert escribe la fila completa; en conflicto por id actualiza todo salvo created_at.
// Último escritor gana: no hay bloqueo porque cada lectura re-deriva los campos críticos.
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	const query = `
		INSERT INTO profiles (id, email, full_name, role, roles, active_role, company_id, admin_status,
		                      last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			email          = EXCLUDED.email,
			full_name      = EXCLUDED.full_name,
			role           = EXCLUDED.role,
			roles          = EXCLUDED.roles,
			active_role    = EXCLUDED.active_role,
			company_id     = EXCLUDED.company_id,
			admin_status   = EXCLUDED.admin_status,
			last_active_at = EXCLUDED.last_active_at,
			updated_at     = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.FullName, p.Role, p.Roles, p.ActiveRole, p.CompanyID, p.AdminStatus,
		p.LastActiveAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("upsert profile: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
