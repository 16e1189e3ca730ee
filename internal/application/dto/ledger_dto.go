package dto

import "github.com/shopspring/decimal"

// CreateTransactionRequest alta de una transacción. Fechas en formato YYYY-MM-DD.
type CreateTransactionRequest struct {
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	DueDate        string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Description    string          `json:"description" validate:"required,min=1,max=300"`
	Amount         decimal.Decimal `json:"amount"`
	Group          string          `json:"group" validate:"required,oneof=OPERATING INVESTING FINANCING"`
	Type           string          `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	AccountType    string          `json:"account_type" validate:"required,oneof=CASH RECEIVABLE PAYABLE"`
	Status         string          `json:"status" validate:"omitempty,oneof=PENDING PAID"`
	CashRegisterID string          `json:"cash_register_id" validate:"omitempty,uuid"`
	ReceiptImage   string          `json:"receipt_image" validate:"omitempty,max=500"`
}

// CreateTransferRequest alta de una transferencia entre cajas.
type CreateTransferRequest struct {
	Date                      string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description               string          `json:"description" validate:"omitempty,max=300"`
	Amount                    decimal.Decimal `json:"amount"`
	OriginCashRegisterID      string          `json:"origin_cash_register_id" validate:"required,uuid"`
	DestinationCashRegisterID string          `json:"destination_cash_register_id" validate:"required,uuid,nefield=OriginCashRegisterID"`
}

// DeleteMovementRequest borrado de transacción o transferencia; admin_code es obligatorio para no-ADMIN.
type DeleteMovementRequest struct {
	AdminCode string `json:"admin_code" validate:"omitempty,len=4,hexadecimal"`
}

// MovementResponse entrada del flujo unificado.
type MovementResponse struct {
	ID                        string          `json:"id"`
	Date                      string          `json:"date"`
	DueDate                   string          `json:"due_date,omitempty"`
	Description               string          `json:"description"`
	Amount                    decimal.Decimal `json:"amount"`
	Group                     string          `json:"group"`
	Type                      string          `json:"type"`
	AccountType               string          `json:"account_type"`
	Status                    string          `json:"status"`
	CashRegisterID            string          `json:"cash_register_id"`
	DestinationCashRegisterID string          `json:"destination_cash_register_id,omitempty"`
	ReceiptImage              string          `json:"receipt_image,omitempty"`
}

// CashRegisterRequest alta/edición de caja.
type CashRegisterRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=300"`
}

// CashRegisterResponse caja con su saldo derivado.
type CashRegisterResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsDefault   bool            `json:"is_default"`
	Balance     decimal.Decimal `json:"balance"`
}

// RegisterLedgerEntry fila del libro de una caja.
type RegisterLedgerEntry struct {
	Movement        MovementResponse `json:"movement"`
	Delta           decimal.Decimal  `json:"delta"`
	Balance         decimal.Decimal  `json:"balance"`
	OriginName      string           `json:"origin_name,omitempty"`
	DestinationName string           `json:"destination_name,omitempty"`
}

// RegisterLedgerResponse libro de una caja en un rango.
type RegisterLedgerResponse struct {
	CashRegister CashRegisterResponse  `json:"cash_register"`
	From         string                `json:"from,omitempty"`
	To           string                `json:"to,omitempty"`
	Opening      decimal.Decimal       `json:"opening"`
	Entries      []RegisterLedgerEntry `json:"entries"`
	Closing      decimal.Decimal       `json:"closing"`
}
