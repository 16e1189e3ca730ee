package entity

import "time"

// WildcardPermission concede todos los permisos.
const WildcardPermission = "*"

// AppRole rol con su conjunto de llaves de permiso. CompanyID vacío = rol del sistema.
type AppRole struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Permissions []string
	IsSystem    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
