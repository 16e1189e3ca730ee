package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// Nombres de razones del balance general.
const (
	RatioCurrentRatio = "Current Ratio"
	RatioDebtRatio    = "Debt Ratio"
)

// BalanceSheet balance a la fecha periodEnd; acumula desde el inicio sin importar el inicio del periodo.
// El efectivo usa el criterio pagado o base caja; las transferencias no clasifican.
func BalanceSheet(movements []entity.Movement, periodEnd time.Time) (*entity.BalanceSheetData, []entity.FinancialRatio) {
	snapshot := transactionsOnly(UpTo(movements, periodEnd))

	cashIn := sum(filter(snapshot, func(m entity.Movement) bool { return m.Type == entity.TypeIncome && m.ClearsCash() }))
	cashOut := sum(filter(snapshot, func(m entity.Movement) bool { return m.Type == entity.TypeExpense && m.ClearsCash() }))
	pendingReceivables := filter(snapshot, func(m entity.Movement) bool {
		return m.Type == entity.TypeIncome && m.Status == entity.StatusPending
	})
	pendingPayables := filter(snapshot, func(m entity.Movement) bool {
		return m.Type == entity.TypeExpense && m.Status == entity.StatusPending
	})

	cash := cashIn.Sub(cashOut)
	receivable := sum(pendingReceivables)
	payable := sum(pendingPayables)
	fixed := decimal.Zero
	totalAssets := cash.Add(receivable).Add(fixed)
	totalLiabilities := payable

	data := &entity.BalanceSheetData{
		Assets: entity.BalanceAssets{
			CashAndEquivalents: cash,
			AccountsReceivable: receivable,
			FixedAssets:        fixed,
			TotalAssets:        totalAssets,
		},
		Liabilities: entity.BalanceLiabilities{
			AccountsPayable:  payable,
			LongTermDebt:     decimal.Zero,
			TotalLiabilities: totalLiabilities,
		},
		Equity: totalAssets.Sub(totalLiabilities),
		Details: entity.BalanceDetails{
			PendingReceivables: pendingReceivables,
			PendingPayables:    pendingPayables,
		},
	}
	ratios := []entity.FinancialRatio{
		{Name: RatioCurrentRatio, Value: ratio(totalAssets, totalLiabilities)},
		{Name: RatioDebtRatio, Value: ratio(totalLiabilities, totalAssets)},
	}
	return data, ratios
}

// transactionsOnly descarta las transferencias proyectadas.
func transactionsOnly(movements []entity.Movement) []entity.Movement {
	return filter(movements, func(m entity.Movement) bool { return !m.IsTransfer() })
}
