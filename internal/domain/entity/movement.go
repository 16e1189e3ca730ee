package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement entrada del flujo unificado: una Transaction o una Transfer proyectada (Type=TRANSFER).
// Se serializa tal cual dentro del payload de los reportes.
type Movement struct {
	ID                        string            `json:"id"`
	Date                      time.Time         `json:"date"`
	DueDate                   *time.Time        `json:"dueDate,omitempty"`
	Description               string            `json:"description"`
	Amount                    decimal.Decimal   `json:"amount"`
	Group                     ActivityGroup     `json:"group"`
	Type                      TransactionType   `json:"type"`
	AccountType               AccountType       `json:"accountType"`
	Status                    TransactionStatus `json:"status"`
	CashRegisterID            string            `json:"cashRegisterId"`
	DestinationCashRegisterID string            `json:"destinationCashRegisterId,omitempty"`
	ReceiptImage              string            `json:"receiptImage,omitempty"`
}

// IsTransfer indica si el movimiento proviene de una Transfer.
func (m Movement) IsTransfer() bool {
	return m.Type == TypeTransfer
}

// ClearsCash indica si el movimiento afecta efectivo: pagado o de base caja.
func (m Movement) ClearsCash() bool {
	return m.Status == StatusPaid || m.AccountType == AccountCash
}
