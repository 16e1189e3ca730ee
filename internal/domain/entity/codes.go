package entity

import "time"

// Vigencia de los códigos de un solo uso.
const (
	InvitationCodeTTL = 6 * time.Hour
	AdminCodeTTL      = 5 * time.Minute
)

// InvitationCode código para que un nuevo usuario se una a una empresa con un rol.
type InvitationCode struct {
	Code      string
	CompanyID string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si el código venció en el instante now.
func (c *InvitationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// AdminCode código de autorización para que un no-ADMIN elimine movimientos.
type AdminCode struct {
	Code      string
	CompanyID string
	CreatedBy string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si el código venció en el instante now.
func (c *AdminCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
