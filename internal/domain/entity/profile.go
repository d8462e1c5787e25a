package entity

import (
	"time"

	"github.com/jhoicas/bienestar-api/internal/domain/authz"
)

// Estados administrativos válidos para Profile.
const (
	AdminStatusInvited   = "invited"
	AdminStatusActive    = "active"
	AdminStatusInactive  = "inactive"
	AdminStatusSuspended = "suspended"
)

// ValidAdminStatus informa si el estado pertenece al enum de la tabla.
func ValidAdminStatus(s string) bool {
	switch s {
	case AdminStatusInvited, AdminStatusActive, AdminStatusInactive, AdminStatusSuspended:
		return true
	}
	return false
}

// DisabledStatus informa si el estado impide usar la aplicación.
func DisabledStatus(s string) bool {
	return s == AdminStatusInactive || s == AdminStatusSuspended
}

// Profile registro persistido del principal, con alcance de empresa.
// Lo mutan solo Session Sync y las acciones administrativas.
type Profile struct {
	ID           string // = Identity.ID
	Email        string
	FullName     string
	Role         string   // rol primario (legacy, compatibilidad)
	Roles        []string // nunca vacío
	ActiveRole   string   // debe pertenecer a Roles
	CompanyID    *string  // nil = principal global
	AdminStatus  string   // invited, active, inactive, suspended
	LastActiveAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stored proyecta las columnas de acceso para el resolvedor.
func (p *Profile) Stored() *authz.Stored {
	if p == nil {
		return nil
	}
	s := &authz.Stored{Roles: p.Roles, ActiveRole: p.ActiveRole, LegacyRole: p.Role}
	if p.CompanyID != nil {
		s.CompanyID = *p.CompanyID
	}
	return s
}

// AccessProjection columnas de rol del perfil; lo que lee el edge gate.
type AccessProjection struct {
	Roles       []string
	ActiveRole  string
	Role        string
	AdminStatus string
}

// Stored proyecta para ResolveCheap.
func (p *AccessProjection) Stored() *authz.Stored {
	if p == nil {
		return nil
	}
	return &authz.Stored{Roles: p.Roles, ActiveRole: p.ActiveRole, LegacyRole: p.Role}
}
