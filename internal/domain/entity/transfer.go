package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain"
)

// Transfer movimiento de fondos entre dos cajas de la misma empresa.
type Transfer struct {
	ID                        string
	CompanyID                 string
	Date                      time.Time
	Description               string
	Amount                    decimal.Decimal
	OriginCashRegisterID      string
	DestinationCashRegisterID string
	CreatedAt                 time.Time
}

// Validate verifica monto positivo y cajas distintas.
func (t *Transfer) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: la fecha es requerida", domain.ErrInvalidInput)
	}
	if t.OriginCashRegisterID == "" || t.DestinationCashRegisterID == "" {
		return fmt.Errorf("%w: caja de origen y destino son requeridas", domain.ErrInvalidInput)
	}
	if t.OriginCashRegisterID == t.DestinationCashRegisterID {
		return fmt.Errorf("%w: la caja de origen y destino deben ser distintas", domain.ErrInvalidInput)
	}
	return nil
}
