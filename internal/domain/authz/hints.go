package authz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Claves de la metadata del proveedor de identidad que el motor interpreta.
const (
	MetaRole       = "role"
	MetaRoles      = "roles"
	MetaActiveRole = "active_role"
	MetaCompanyID  = "company_id"
)

// Hints pistas de acceso extraídas de la metadata del proveedor (invitaciones,
// asignaciones pendientes, espejo de un cambio de rol). Son consultivas: se unen
// a los roles persistidos y nunca los sustituyen.
type Hints struct {
	Role       Role
	Roles      []Role
	ActiveRole Role
	CompanyID  string
	// Rejected valores descartados por no pertenecer al vocabulario o por tipo inválido.
	Rejected []string
}

// HintsFromMetadata valida y convierte la bolsa de metadata al vocabulario cerrado.
// Cada clave se decodifica por separado para que un campo corrupto no invalide el resto.
func HintsFromMetadata(md map[string]any) Hints {
	var h Hints
	if len(md) == 0 {
		return h
	}

	if raw, ok := md[MetaRole]; ok && raw != nil {
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			h.reject(MetaRole, raw)
		} else if r, ok := ParseRole(s); ok {
			h.Role = r
		} else if strings.TrimSpace(s) != "" {
			h.reject(MetaRole, s)
		}
	}

	if raw, ok := md[MetaRoles]; ok && raw != nil {
		var list []string
		if err := mapstructure.WeakDecode(raw, &list); err != nil {
			h.reject(MetaRoles, raw)
		} else {
			for _, s := range list {
				if r, ok := ParseRole(s); ok {
					h.Roles = append(h.Roles, r)
				} else {
					h.reject(MetaRoles, s)
				}
			}
		}
	}

	if raw, ok := md[MetaActiveRole]; ok && raw != nil {
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			h.reject(MetaActiveRole, raw)
		} else if r, ok := ParseRole(s); ok {
			h.ActiveRole = r
		} else if strings.TrimSpace(s) != "" {
			h.reject(MetaActiveRole, s)
		}
	}

	if raw, ok := md[MetaCompanyID]; ok && raw != nil {
		var s string
		if err := mapstructure.WeakDecode(raw, &s); err != nil {
			h.reject(MetaCompanyID, raw)
		} else if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			h.CompanyID = id.String()
		} else if strings.TrimSpace(s) != "" {
			// Inválida: gana la empresa persistida.
			h.reject(MetaCompanyID, s)
		}
	}

	return h
}

// Intent rol elegido explícitamente en la sesión: active_role, si no role.
func (h Hints) Intent() Role {
	if h.ActiveRole != "" {
		return h.ActiveRole
	}
	return h.Role
}

// HeldRoles roles que la metadata declara (role + roles).
func (h Hints) HeldRoles() []Role {
	out := make([]Role, 0, len(h.Roles)+1)
	if h.Role != "" {
		out = append(out, h.Role)
	}
	return append(out, h.Roles...)
}

func (h *Hints) reject(key string, v any) {
	h.Rejected = append(h.Rejected, fmt.Sprintf("%s=%v", key, v))
}
