package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// RatioCashFlowMargin flujo neto sobre entradas de efectivo del periodo.
const RatioCashFlowMargin = "Cash Flow Margin"

// CashFlow estado de flujo en base caja: solo movimientos pagados o de base caja.
// Las transferencias no suman a las actividades; se reportan aparte por caja.
func CashFlow(movements []entity.Movement, periodStart, periodEnd time.Time) (*entity.CashFlowData, []entity.FinancialRatio) {
	period := InPeriod(movements, periodStart, periodEnd)
	cashBasis := filter(period, func(m entity.Movement) bool { return !m.IsTransfer() && m.ClearsCash() })

	byGroup := func(g entity.ActivityGroup) []entity.Movement {
		return filter(cashBasis, func(m entity.Movement) bool { return m.Group == g })
	}
	operating := byGroup(entity.GroupOperating)
	investing := byGroup(entity.GroupInvesting)
	financing := byGroup(entity.GroupFinancing)

	opNet, invNet, finNet := net(operating), net(investing), net(financing)
	netCash := opNet.Add(invNet).Add(finNet)

	data := &entity.CashFlowData{
		OperatingActivities: opNet,
		InvestingActivities: invNet,
		FinancingActivities: finNet,
		NetCashFlow:         netCash,
		Details: entity.CashFlowDetails{
			OperatingTransactions: operating,
			InvestingTransactions: investing,
			FinancingTransactions: financing,
		},
		RegisterTransfers: transferFlows(period),
	}
	inflows := sum(filter(cashBasis, func(m entity.Movement) bool { return m.Type == entity.TypeIncome }))
	ratios := []entity.FinancialRatio{
		{Name: RatioCashFlowMargin, Value: percent(netCash, inflows, "0%")},
	}
	return data, ratios
}

func net(movements []entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case entity.TypeIncome:
			total = total.Add(m.Amount)
		case entity.TypeExpense:
			total = total.Sub(m.Amount)
		}
	}
	return total
}

// transferFlows agrega entradas y salidas por caja de las transferencias del periodo, ordenadas por caja.
func transferFlows(period []entity.Movement) []entity.RegisterTransferFlow {
	flows := map[string]*entity.RegisterTransferFlow{}
	get := func(id string) *entity.RegisterTransferFlow {
		f, ok := flows[id]
		if !ok {
			f = &entity.RegisterTransferFlow{CashRegisterID: id, Incoming: decimal.Zero, Outgoing: decimal.Zero, Net: decimal.Zero}
			flows[id] = f
		}
		return f
	}
	for _, m := range period {
		if !m.IsTransfer() {
			continue
		}
		origin := get(m.CashRegisterID)
		origin.Outgoing = origin.Outgoing.Add(m.Amount)
		dest := get(m.DestinationCashRegisterID)
		dest.Incoming = dest.Incoming.Add(m.Amount)
	}
	out := make([]entity.RegisterTransferFlow, 0, len(flows))
	for _, f := range flows {
		f.Net = f.Incoming.Sub(f.Outgoing)
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CashRegisterID < out[j].CashRegisterID })
	return out
}
