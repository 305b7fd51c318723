package entity

import "fmt"

// Role rol de un perfil. Enumeración cerrada: solo admin y customer son válidos,
// cualquier otro valor se rechaza al parsear.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole valida y convierte un string en Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("rol inválido: %q", s)
}

// Valid indica si el rol es uno de los valores permitidos.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

func (r Role) String() string { return string(r) }
