package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProfileNotFound    = errors.New("perfil no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidRole        = errors.New("rol desconocido")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrAccountDisabled    = errors.New("cuenta inactiva o suspendida")
	ErrProfileUnavailable = errors.New("almacén de perfiles no disponible")
)

// AuthorizationError principal autenticado sin el rol requerido.
// Lleva lo requerido y lo que tiene para auditoría; no se muestra al usuario final.
type AuthorizationError struct {
	Required []string
	Held     []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("acceso denegado: requiere [%s], tiene [%s]",
		strings.Join(e.Required, ","), strings.Join(e.Held, ","))
}

// Unwrap permite errors.Is(err, ErrForbidden).
func (e *AuthorizationError) Unwrap() error { return ErrForbidden }
