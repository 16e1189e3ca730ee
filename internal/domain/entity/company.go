package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate tasa de impuesto (porcentaje) asignada al registrar una empresa.
const DefaultTaxRate = 16

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	LogoURL   string
	TaxRate   decimal.Decimal // porcentaje, 0..100
	CreatedBy string          // user id del dueño
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot copia los datos de la empresa que se congelan en un reporte.
func (c *Company) Snapshot() CompanySnapshot {
	return CompanySnapshot{
		Name:    c.Name,
		Address: c.Address,
		TaxID:   c.TaxID,
		LogoURL: c.LogoURL,
		TaxRate: c.TaxRate,
	}
}
