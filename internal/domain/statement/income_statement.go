package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// Nombres de razones del estado de resultados.
const (
	RatioNetProfitMargin = "Net Profit Margin"
	RatioExpenseRatio    = "Expense Ratio"
)

// IncomeStatement estado de resultados en base devengado: incluye pagados y pendientes, excluye transferencias.
// El impuesto nunca es negativo.
func IncomeStatement(movements []entity.Movement, periodStart, periodEnd time.Time, taxRatePercent decimal.Decimal) (*entity.IncomeStatementData, []entity.FinancialRatio) {
	period := InPeriod(movements, periodStart, periodEnd)
	revenues := filter(period, func(m entity.Movement) bool { return m.Type == entity.TypeIncome })
	expenses := filter(period, func(m entity.Movement) bool { return m.Type == entity.TypeExpense })

	totalRevenue := sum(revenues)
	totalExpenses := sum(expenses)
	incomeBeforeTax := totalRevenue.Sub(totalExpenses)
	taxAmount := decimal.Max(decimal.Zero, incomeBeforeTax.Mul(taxRatePercent).Div(hundred))
	netIncome := incomeBeforeTax.Sub(taxAmount)

	data := &entity.IncomeStatementData{
		Revenues:        revenues,
		Expenses:        expenses,
		TotalRevenue:    totalRevenue,
		TotalExpenses:   totalExpenses,
		IncomeBeforeTax: incomeBeforeTax,
		TaxRate:         taxRatePercent,
		TaxAmount:       taxAmount,
		NetIncome:       netIncome,
	}
	ratios := []entity.FinancialRatio{
		{Name: RatioNetProfitMargin, Value: percent(netIncome, totalRevenue, "0%")},
		{Name: RatioExpenseRatio, Value: percent(totalExpenses, totalRevenue, "0%")},
	}
	return data, ratios
}
