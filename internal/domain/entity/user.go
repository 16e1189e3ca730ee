package entity

import "time"

// Roles del sistema (los roles personalizados se guardan en app_roles con cualquier otro nombre).
const (
	RoleAdmin      = "ADMIN"
	RoleAccountant = "ACCOUNTANT"
	RoleViewer     = "VIEWER"
)

// Estados de User.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
)

// Idiomas soportados para la interfaz y la narración de reportes.
const (
	LanguageES = "ES"
	LanguageEN = "EN"
)

// User representa un usuario del sistema. CompanyID vacío = registrado sin empresa.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // ADMIN, ACCOUNTANT, VIEWER o nombre de rol personalizado
	Avatar       string
	Phone        string
	Bio          string
	Language     string
	Status       string // ACTIVE, INACTIVE
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
