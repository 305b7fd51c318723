package entity

import "time"

// Principal identidad autenticada del directorio de auth. El perfil la extiende
// con rol y nombre visible; la sesión la referencia pero no la posee.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string // metadata opcional de registro
	CreatedAt    time.Time
}

// Profile fila de user_profiles: exactamente una por Principal (PK = FK al principal).
// Se crea automáticamente en el primer registro; si el aprovisionamiento llega tarde,
// el fetch auto-reparador la inserta con rol customer.
type Profile struct {
	ID        string // = Principal.ID
	Email     string
	Role      Role
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin derivación pura del rol. Falso (no error) para perfil nil: la ausencia
// de perfil nunca otorga privilegios.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
