package entity

import "time"

// Nombre y descripción de la caja creada al registrar una empresa.
const (
	DefaultCashRegisterName        = "Caja General"
	DefaultCashRegisterDescription = "Caja principal por defecto"
)

// CashRegister caja de efectivo de una empresa. El saldo no se persiste: se deriva del flujo de movimientos.
type CashRegister struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
}
