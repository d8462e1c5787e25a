package entity

import "time"

// Company organización cliente (tenant). Los perfiles con company_id pertenecen a una.
type Company struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active informa si la empresa admite asignar perfiles.
func (c *Company) Active() bool {
	return c != nil && c.Status == "active"
}
