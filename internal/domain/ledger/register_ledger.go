package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// LedgerEntry fila del libro de una caja con su efecto y saldo acumulado.
type LedgerEntry struct {
	Movement entity.Movement
	Delta    decimal.Decimal
	Balance  decimal.Decimal
}

// RegisterLedger libro de una caja en un rango de fechas.
type RegisterLedger struct {
	RegisterID string
	Opening    decimal.Decimal
	Entries    []LedgerEntry
	Closing    decimal.Decimal
}

// BuildRegisterLedger arma el libro de registerID en [from, to] (inclusive, fechas cero = sin límite),
// en orden cronológico ascendente. El saldo de apertura acumula lo anterior a from.
func BuildRegisterLedger(registerID string, movements []entity.Movement, from, to time.Time) RegisterLedger {
	touching := make([]entity.Movement, 0)
	for _, m := range movements {
		if m.CashRegisterID == registerID || m.DestinationCashRegisterID == registerID {
			touching = append(touching, m)
		}
	}
	sort.SliceStable(touching, func(i, j int) bool {
		return entity.Day(touching[i].Date).Before(entity.Day(touching[j].Date))
	})

	out := RegisterLedger{RegisterID: registerID, Opening: decimal.Zero, Entries: []LedgerEntry{}}
	for _, m := range touching {
		day := entity.Day(m.Date)
		if !from.IsZero() && day.Before(entity.Day(from)) {
			out.Opening = out.Opening.Add(Delta(m, registerID))
		}
	}
	running := out.Opening
	for _, m := range touching {
		day := entity.Day(m.Date)
		if !from.IsZero() && day.Before(entity.Day(from)) {
			continue
		}
		if !to.IsZero() && day.After(entity.Day(to)) {
			continue
		}
		d := Delta(m, registerID)
		running = running.Add(d)
		out.Entries = append(out.Entries, LedgerEntry{Movement: m, Delta: d, Balance: running})
	}
	out.Closing = running
	return out
}
