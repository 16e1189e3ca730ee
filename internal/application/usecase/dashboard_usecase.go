package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/ledger"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
	"github.com/mdjvazquez/finmks-v/internal/domain/statement"
)

var dashboardGroups = []entity.ActivityGroup{entity.GroupOperating, entity.GroupInvesting, entity.GroupFinancing}

// DashboardUseCase resumen financiero de la empresa sobre un rango de fechas.
// Las transferencias no cuentan como ingreso ni gasto.
type DashboardUseCase struct {
	ledger repository.LedgerRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(ledgerRepo repository.LedgerRepository) *DashboardUseCase {
	return &DashboardUseCase{ledger: ledgerRepo}
}

// Summary suma ingresos, gastos, cuentas por cobrar y por pagar del rango (ambos extremos inclusive).
func (uc *DashboardUseCase) Summary(ctx context.Context, p *permission.Principal, in dto.DashboardRequest) (*dto.DashboardSummaryDTO, error) {
	if err := session.Authorize(p, permission.DashboardView); err != nil {
		return nil, err
	}
	from, err := parseOptionalDay("from", in.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDay("to", in.To)
	if err != nil {
		return nil, err
	}
	if from.IsZero() != to.IsZero() {
		return nil, fmt.Errorf("%w: from y to van juntos", domain.ErrInvalidInput)
	}

	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return nil, err
	}
	movements = ledger.Transactions(movements)
	if !from.IsZero() {
		movements = statement.InPeriod(movements, from, to)
	}
	return summarize(movements, from, to), nil
}

func summarize(movements []entity.Movement, from, to time.Time) *dto.DashboardSummaryDTO {
	out := &dto.DashboardSummaryDTO{From: formatDay(from), To: formatDay(to)}
	incomeBy := make(map[entity.ActivityGroup]decimal.Decimal)
	expenseBy := make(map[entity.ActivityGroup]decimal.Decimal)
	for _, m := range movements {
		switch m.Type {
		case entity.TypeIncome:
			out.Income = out.Income.Add(m.Amount)
			incomeBy[m.Group] = incomeBy[m.Group].Add(m.Amount)
		case entity.TypeExpense:
			out.Expense = out.Expense.Add(m.Amount)
			expenseBy[m.Group] = expenseBy[m.Group].Add(m.Amount)
		}
		switch m.AccountType {
		case entity.AccountReceivable:
			out.Receivables = out.Receivables.Add(m.Amount)
		case entity.AccountPayable:
			out.Payables = out.Payables.Add(m.Amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)
	out.IncomeByGroup = groupTotals(incomeBy)
	out.ExpenseByGroup = groupTotals(expenseBy)
	return out
}

// groupTotals solo incluye grupos con movimientos, en orden fijo.
func groupTotals(by map[entity.ActivityGroup]decimal.Decimal) []dto.GroupTotalDTO {
	out := make([]dto.GroupTotalDTO, 0, len(by))
	for _, g := range dashboardGroups {
		if total, ok := by[g]; ok {
			out = append(out, dto.GroupTotalDTO{Group: string(g), Total: total})
		}
	}
	return out
}
