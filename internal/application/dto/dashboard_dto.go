package dto

import "github.com/shopspring/decimal"

// DashboardRequest rango opcional; vacío = todo el flujo.
type DashboardRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Balance     decimal.Decimal `json:"balance"` // income - expense
	Receivables decimal.Decimal `json:"receivables"`
	Payables    decimal.Decimal `json:"payables"`

	IncomeByGroup  []GroupTotalDTO `json:"income_by_group"`
	ExpenseByGroup []GroupTotalDTO `json:"expense_by_group"`
}

// GroupTotalDTO total por grupo de actividad para las gráficas.
type GroupTotalDTO struct {
	Group string          `json:"group"`
	Total decimal.Decimal `json:"total"`
}
