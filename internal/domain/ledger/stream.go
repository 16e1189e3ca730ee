// Package ledger une transacciones y transferencias en un único flujo de movimientos
// y deriva de él los saldos por caja. Todas las funciones son puras.
package ledger

import (
	"sort"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// FromTransaction proyecta una Transaction al flujo.
func FromTransaction(t *entity.Transaction) entity.Movement {
	return entity.Movement{
		ID:             t.ID,
		Date:           t.Date,
		DueDate:        t.DueDate,
		Description:    t.Description,
		Amount:         t.Amount,
		Group:          t.Group,
		Type:           t.Type,
		AccountType:    t.AccountType,
		Status:         t.Status,
		CashRegisterID: t.CashRegisterID,
		ReceiptImage:   t.ReceiptImage,
	}
}

// FromTransfer proyecta una Transfer como movimiento sintético:
// TRANSFER / FINANCING / CASH / PAID, con la caja de origen en CashRegisterID.
func FromTransfer(tr *entity.Transfer) entity.Movement {
	return entity.Movement{
		ID:                        tr.ID,
		Date:                      tr.Date,
		Description:               tr.Description,
		Amount:                    tr.Amount,
		Group:                     entity.GroupFinancing,
		Type:                      entity.TypeTransfer,
		AccountType:               entity.AccountCash,
		Status:                    entity.StatusPaid,
		CashRegisterID:            tr.OriginCashRegisterID,
		DestinationCashRegisterID: tr.DestinationCashRegisterID,
	}
}

// BuildMovementStream devuelve el flujo unificado ordenado por fecha descendente.
// Los empates conservan el orden de entrada: transacciones primero, luego transferencias.
func BuildMovementStream(transactions []*entity.Transaction, transfers []*entity.Transfer) []entity.Movement {
	out := make([]entity.Movement, 0, len(transactions)+len(transfers))
	for _, t := range transactions {
		if t == nil {
			continue
		}
		out = append(out, FromTransaction(t))
	}
	for _, tr := range transfers {
		if tr == nil {
			continue
		}
		out = append(out, FromTransfer(tr))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entity.Day(out[i].Date).After(entity.Day(out[j].Date))
	})
	return out
}

// Find busca un movimiento por ID en el flujo.
func Find(movements []entity.Movement, id string) (entity.Movement, bool) {
	for _, m := range movements {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Movement{}, false
}

// Transactions filtra los movimientos que no son transferencias.
func Transactions(movements []entity.Movement) []entity.Movement {
	out := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if !m.IsTransfer() {
			out = append(out, m)
		}
	}
	return out
}
