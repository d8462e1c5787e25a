package entity

// Identity representación del principal que mantiene el proveedor de identidad.
// El motor solo la lee; Metadata es la bolsa app_metadata (pistas de rol y empresa).
type Identity struct {
	ID       string
	Email    string
	FullName string
	Metadata map[string]any
}

// AccessMirror lo que Session Sync copia de vuelta en la metadata del proveedor.
type AccessMirror struct {
	Role       string // rol principal
	ActiveRole string
	Roles      []string
	CompanyID  string
}
