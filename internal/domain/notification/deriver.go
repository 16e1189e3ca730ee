// Package notification deriva alertas de vencimiento a partir de las transacciones pendientes.
package notification

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// Ventanas en días respecto a hoy.
const (
	DueSoonDays  = 7
	UpcomingDays = 30
)

// Derive genera las notificaciones de cuentas por cobrar/pagar pendientes con vencimiento,
// omitiendo las descartadas. Las de severidad alta van primero; el resto conserva el orden de entrada.
// Movimientos sin fecha de vencimiento no generan alertas.
func Derive(movements []entity.Movement, today time.Time, dismissed map[string]bool) []entity.Notification {
	out := make([]entity.Notification, 0)
	base := entity.Day(today)
	for _, m := range movements {
		if m.Status != entity.StatusPending || m.DueDate == nil || !m.AccountType.IsAccrual() {
			continue
		}
		if dismissed[m.ID] {
			continue
		}
		diff := DaysUntil(base, *m.DueDate)
		n, ok := classify(m, diff)
		if !ok {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity == entity.SeverityHigh && out[j].Severity != entity.SeverityHigh
	})
	return out
}

// DaysUntil días completos entre today y due, ambos normalizados a medianoche.
func DaysUntil(today, due time.Time) int {
	hours := entity.Day(due).Sub(entity.Day(today)).Hours()
	return int(math.Floor(hours / 24))
}

func classify(m entity.Movement, diff int) (entity.Notification, bool) {
	n := entity.Notification{
		ID:            m.ID,
		TransactionID: m.ID,
		Date:          *m.DueDate,
	}
	label := accountLabel(m.AccountType)
	switch {
	case diff < 0:
		n.Severity = entity.SeverityHigh
		n.Type = entity.NotificationOverdue
		n.Message = fmt.Sprintf("%s vencida hace %d día(s): %s (%s)", label, -diff, m.Description, m.Amount.StringFixed(2))
	case diff <= DueSoonDays:
		n.Severity = entity.SeverityMedium
		n.Type = entity.NotificationDueSoon
		if diff == 0 {
			n.Message = fmt.Sprintf("%s vence hoy: %s (%s)", label, m.Description, m.Amount.StringFixed(2))
		} else {
			n.Message = fmt.Sprintf("%s vence en %d día(s): %s (%s)", label, diff, m.Description, m.Amount.StringFixed(2))
		}
	case diff <= UpcomingDays:
		n.Severity = entity.SeverityLow
		n.Type = entity.NotificationUpcoming
		n.Message = fmt.Sprintf("%s próxima a vencer en %d día(s): %s (%s)", label, diff, m.Description, m.Amount.StringFixed(2))
	default:
		return entity.Notification{}, false
	}
	return n, true
}

func accountLabel(a entity.AccountType) string {
	if a == entity.AccountReceivable {
		return "Cuenta por cobrar"
	}
	return "Cuenta por pagar"
}
