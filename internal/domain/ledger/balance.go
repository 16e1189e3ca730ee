package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// Delta efecto de un movimiento sobre el saldo de la caja registerID.
// Los ingresos/egresos solo cuentan si son pagados o de base caja; las transferencias
// restan en el origen y suman en el destino.
func Delta(m entity.Movement, registerID string) decimal.Decimal {
	d := decimal.Zero
	switch m.Type {
	case entity.TypeIncome:
		if m.CashRegisterID == registerID && m.ClearsCash() {
			d = d.Add(m.Amount)
		}
	case entity.TypeExpense:
		if m.CashRegisterID == registerID && m.ClearsCash() {
			d = d.Sub(m.Amount)
		}
	case entity.TypeTransfer:
		if m.CashRegisterID == registerID {
			d = d.Sub(m.Amount)
		}
		if m.DestinationCashRegisterID == registerID {
			d = d.Add(m.Amount)
		}
	}
	return d
}

// RegisterBalance saldo de una caja a partir del flujo completo.
func RegisterBalance(registerID string, movements []entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(Delta(m, registerID))
	}
	return total
}

// Balances calcula en una pasada el saldo de cada caja referenciada en el flujo
// y de las cajas indicadas (que quedan en cero si no tienen movimientos).
func Balances(registerIDs []string, movements []entity.Movement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(registerIDs))
	for _, id := range registerIDs {
		out[id] = decimal.Zero
	}
	add := func(id string, amount decimal.Decimal) {
		if id == "" {
			return
		}
		out[id] = out[id].Add(amount)
	}
	for _, m := range movements {
		switch m.Type {
		case entity.TypeIncome:
			if m.ClearsCash() {
				add(m.CashRegisterID, m.Amount)
			}
		case entity.TypeExpense:
			if m.ClearsCash() {
				add(m.CashRegisterID, m.Amount.Neg())
			}
		case entity.TypeTransfer:
			add(m.CashRegisterID, m.Amount.Neg())
			add(m.DestinationCashRegisterID, m.Amount)
		}
	}
	return out
}
