package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain"
)

// ActivityGroup clasificación de flujo de efectivo.
type ActivityGroup string

const (
	GroupOperating ActivityGroup = "OPERATING"
	GroupInvesting ActivityGroup = "INVESTING"
	GroupFinancing ActivityGroup = "FINANCING"
)

// TransactionType naturaleza del movimiento. TRANSFER solo existe en el flujo proyectado.
type TransactionType string

const (
	TypeIncome   TransactionType = "INCOME"
	TypeExpense  TransactionType = "EXPENSE"
	TypeTransfer TransactionType = "TRANSFER"
)

// AccountType base contable del movimiento.
type AccountType string

const (
	AccountCash       AccountType = "CASH"
	AccountReceivable AccountType = "RECEIVABLE"
	AccountPayable    AccountType = "PAYABLE"
)

// TransactionStatus estado de cobro/pago.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusPaid    TransactionStatus = "PAID"
)

// Valid indica si el grupo es uno de los tres conocidos.
func (g ActivityGroup) Valid() bool {
	return g == GroupOperating || g == GroupInvesting || g == GroupFinancing
}

// Valid indica si el tipo de cuenta es conocido.
func (a AccountType) Valid() bool {
	return a == AccountCash || a == AccountReceivable || a == AccountPayable
}

// IsAccrual indica cuentas por cobrar/pagar (requieren fecha de vencimiento).
func (a AccountType) IsAccrual() bool {
	return a == AccountReceivable || a == AccountPayable
}

// Valid indica si el estado es conocido.
func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Transaction ingreso o egreso registrado en una caja.
type Transaction struct {
	ID             string
	CompanyID      string
	CashRegisterID string
	Date           time.Time
	DueDate        *time.Time // obligatorio para RECEIVABLE/PAYABLE
	Description    string
	Amount         decimal.Decimal
	Group          ActivityGroup
	Type           TransactionType
	AccountType    AccountType
	Status         TransactionStatus
	ReceiptImage   string // referencia opaca al comprobante
	CreatedAt      time.Time
}

// Validate aplica las reglas de negocio de una transacción antes de persistirla.
func (t *Transaction) Validate() error {
	if t.Description == "" {
		return fmt.Errorf("%w: la descripción es requerida", domain.ErrInvalidInput)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: la fecha es requerida", domain.ErrInvalidInput)
	}
	if !t.Group.Valid() {
		return fmt.Errorf("%w: grupo de actividad %q inválido", domain.ErrInvalidInput, t.Group)
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("%w: tipo %q inválido", domain.ErrInvalidInput, t.Type)
	}
	if !t.AccountType.Valid() {
		return fmt.Errorf("%w: tipo de cuenta %q inválido", domain.ErrInvalidInput, t.AccountType)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, t.Status)
	}
	if t.AccountType.IsAccrual() {
		if t.DueDate == nil {
			return fmt.Errorf("%w: la fecha de vencimiento es requerida para %s", domain.ErrInvalidInput, t.AccountType)
		}
		if !t.DueDate.After(t.Date) {
			return fmt.Errorf("%w: la fecha de vencimiento debe ser posterior a la fecha", domain.ErrInvalidInput)
		}
	}
	return nil
}
