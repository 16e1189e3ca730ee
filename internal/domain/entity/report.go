package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportType tipo de estado financiero.
type ReportType string

const (
	ReportIncomeStatement ReportType = "INCOME_STATEMENT"
	ReportBalanceSheet    ReportType = "BALANCE_SHEET"
	ReportCashFlow        ReportType = "CASH_FLOW"
)

// Valid indica si el tipo de reporte es conocido.
func (t ReportType) Valid() bool {
	return t == ReportIncomeStatement || t == ReportBalanceSheet || t == ReportCashFlow
}

// CompanySnapshot copia desnormalizada de la empresa al momento de generar el reporte.
type CompanySnapshot struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	TaxID   string          `json:"taxId"`
	LogoURL string          `json:"logoUrl"`
	TaxRate decimal.Decimal `json:"taxRate"`
}

// FinancialRatio razón financiera con su valor formateado y análisis opcional.
type FinancialRatio struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Analysis string `json:"analysis,omitempty"`
}

// FinancialReport estado financiero generado. Inmutable salvo el análisis adjunto.
type FinancialReport struct {
	ID              string
	CompanyID       string
	Folio           string
	Type            ReportType
	DateGenerated   time.Time
	PeriodStart     time.Time
	PeriodEnd       time.Time
	GeneratedBy     string
	CompanySnapshot CompanySnapshot
	Data            ReportData
	Ratios          []FinancialRatio
	AIAnalysis      string
}

// ReportData payload específico del tipo; solo uno de los campos está presente.
type ReportData struct {
	IncomeStatement *IncomeStatementData `json:"incomeStatement,omitempty"`
	BalanceSheet    *BalanceSheetData    `json:"balanceSheet,omitempty"`
	CashFlow        *CashFlowData        `json:"cashFlow,omitempty"`
}

// IncomeStatementData estado de resultados (base devengado).
type IncomeStatementData struct {
	Revenues        []Movement      `json:"revenues"`
	Expenses        []Movement      `json:"expenses"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	IncomeBeforeTax decimal.Decimal `json:"incomeBeforeTax"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	NetIncome       decimal.Decimal `json:"netIncome"`
}

// BalanceSheetData balance general al cierre del periodo.
type BalanceSheetData struct {
	Assets      BalanceAssets      `json:"assets"`
	Liabilities BalanceLiabilities `json:"liabilities"`
	Equity      decimal.Decimal    `json:"equity"`
	Details     BalanceDetails     `json:"details"`
}

// BalanceAssets activos del balance.
type BalanceAssets struct {
	CashAndEquivalents decimal.Decimal `json:"cashAndEquivalents"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	FixedAssets        decimal.Decimal `json:"fixedAssets"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
}

// BalanceLiabilities pasivos del balance.
type BalanceLiabilities struct {
	AccountsPayable  decimal.Decimal `json:"accountsPayable"`
	LongTermDebt     decimal.Decimal `json:"longTermDebt"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}

// BalanceDetails movimientos pendientes para auditoría.
type BalanceDetails struct {
	PendingReceivables []Movement `json:"pendingReceivables"`
	PendingPayables    []Movement `json:"pendingPayables"`
}

// CashFlowData estado de flujo de efectivo (base caja).
type CashFlowData struct {
	OperatingActivities decimal.Decimal        `json:"operatingActivities"`
	InvestingActivities decimal.Decimal        `json:"investingActivities"`
	FinancingActivities decimal.Decimal        `json:"financingActivities"`
	NetCashFlow         decimal.Decimal        `json:"netCashFlow"`
	Details             CashFlowDetails        `json:"details"`
	RegisterTransfers   []RegisterTransferFlow `json:"registerTransfers"`
}

// CashFlowDetails movimientos por grupo de actividad.
type CashFlowDetails struct {
	OperatingTransactions []Movement `json:"operatingTransactions"`
	InvestingTransactions []Movement `json:"investingTransactions"`
	FinancingTransactions []Movement `json:"financingTransactions"`
}

// RegisterTransferFlow transferencias del periodo agregadas por caja (no suman a las actividades).
type RegisterTransferFlow struct {
	CashRegisterID string          `json:"cashRegisterId"`
	Incoming       decimal.Decimal `json:"incoming"`
	Outgoing       decimal.Decimal `json:"outgoing"`
	Net            decimal.Decimal `json:"net"`
}
