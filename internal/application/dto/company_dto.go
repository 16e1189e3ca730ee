package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateCompanyRequest entrada para actualizar la configuración de la empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name    *string          `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string          `json:"tax_id" validate:"omitempty,max=30"`
	Address *string          `json:"address" validate:"omitempty,max=300"`
	LogoURL *string          `json:"logo_url" validate:"omitempty,url"`
	TaxRate *decimal.Decimal `json:"tax_rate"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TaxID     string          `json:"tax_id"`
	Address   string          `json:"address"`
	LogoURL   string          `json:"logo_url"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
