package dto

import "github.com/jhoicas/bienestar-api/internal/domain/authz"

// SwitchRoleRequest entrada del cambio de rol. La lista de roles nunca viene del cliente.
type SwitchRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ForceUpdateRequest actualización administrativa del acceso de un perfil.
// Campos nil/vacíos no se modifican; CompanyID apuntando a "" deja el perfil sin empresa.
type ForceUpdateRequest struct {
	Roles       []string `json:"roles,omitempty"`
	ActiveRole  string   `json:"active_role,omitempty"`
	CompanyID   *string  `json:"company_id,omitempty"`
	AdminStatus string   `json:"admin_status,omitempty" validate:"omitempty,oneof=invited active inactive suspended"`
}

// AccessResponse acceso resuelto y página de aterrizaje correspondiente.
type AccessResponse struct {
	Access  authz.AccessContext `json:"access"`
	Landing string              `json:"landing"`
}

// NewAccessResponse arma la respuesta a partir del contexto.
func NewAccessResponse(ac *authz.AccessContext) AccessResponse {
	return AccessResponse{Access: *ac, Landing: authz.LandingPath(ac.ActiveRole)}
}
