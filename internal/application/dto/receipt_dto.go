package dto

import "github.com/shopspring/decimal"

// ReceiptSuggestion transacción parcial sugerida a partir de un comprobante. Todos los campos son opcionales.
type ReceiptSuggestion struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        string           `json:"date,omitempty"`
	DueDate     string           `json:"due_date,omitempty"`
	Description string           `json:"description,omitempty"`
	Group       string           `json:"group,omitempty"`
	Type        string           `json:"type,omitempty"`
	AccountType string           `json:"account_type,omitempty"`
	Status      string           `json:"status,omitempty"`
}
