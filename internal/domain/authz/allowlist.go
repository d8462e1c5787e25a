package authz

import (
	"strings"

	"golang.org/x/text/cases"
)

// Allowlist conjunto inmutable de identificadores (emails) con privilegio total,
// independiente de lo que digan el proveedor de identidad o el perfil.
// Se carga desde configuración y se inyecta; un nil se comporta como lista vacía.
type Allowlist struct {
	members map[string]struct{}
}

// NewAllowlist construye la lista normalizando cada identificador.
func NewAllowlist(identifiers ...string) *Allowlist {
	members := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		if n := normalizeIdentifier(id); n != "" {
			members[n] = struct{}{}
		}
	}
	return &Allowlist{members: members}
}

// IsMasterAdmin prueba pertenencia exacta (sin prefijos ni coincidencias parciales),
// ignorando mayúsculas y espacios al inicio y al final.
func (a *Allowlist) IsMasterAdmin(identifier string) bool {
	if a == nil {
		return false
	}
	n := normalizeIdentifier(identifier)
	if n == "" {
		return false
	}
	_, ok := a.members[n]
	return ok
}

// Len número de identificadores cargados.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.members)
}

// cases.Caser no es seguro entre goroutines: se crea uno por llamada.
func normalizeIdentifier(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
