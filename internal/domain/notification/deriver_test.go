package notification_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/notification"
)

var today = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func pending(id string, acc entity.AccountType, dueOffsetDays int) entity.Movement {
	due := entity.Day(today).AddDate(0, 0, dueOffsetDays)
	return entity.Movement{
		ID: id, Date: entity.Day(today).AddDate(0, 0, -60), DueDate: &due, Description: "Renta",
		Amount: decimal.NewFromInt(1000), Group: entity.GroupOperating, Type: entity.TypeExpense,
		AccountType: acc, Status: entity.StatusPending,
	}
}

func TestDerive_Ventanas(t *testing.T) {
	cases := []struct {
		offset   int
		wantType entity.NotificationType
		wantSev  entity.Severity
		contains string
	}{
		{-1, entity.NotificationOverdue, entity.SeverityHigh, "hace 1 día(s)"},
		{-12, entity.NotificationOverdue, entity.SeverityHigh, "hace 12 día(s)"},
		{0, entity.NotificationDueSoon, entity.SeverityMedium, "vence hoy"},
		{5, entity.NotificationDueSoon, entity.SeverityMedium, "en 5 día(s)"},
		{7, entity.NotificationDueSoon, entity.SeverityMedium, "en 7 día(s)"},
		{8, entity.NotificationUpcoming, entity.SeverityLow, "en 8 día(s)"},
		{20, entity.NotificationUpcoming, entity.SeverityLow, "en 20 día(s)"},
		{30, entity.NotificationUpcoming, entity.SeverityLow, "en 30 día(s)"},
	}
	for _, tc := range cases {
		got := notification.Derive([]entity.Movement{pending("p", entity.AccountPayable, tc.offset)}, today, nil)
		require.Len(t, got, 1, "offset %d", tc.offset)
		assert.Equal(t, tc.wantType, got[0].Type, "offset %d", tc.offset)
		assert.Equal(t, tc.wantSev, got[0].Severity, "offset %d", tc.offset)
		assert.Contains(t, got[0].Message, tc.contains)
		assert.Equal(t, "p", got[0].TransactionID)
	}
}

func TestDerive_MasDeTreintaDiasNoNotifica(t *testing.T) {
	assert.Empty(t, notification.Derive([]entity.Movement{pending("p", entity.AccountPayable, 40)}, today, nil))
	assert.Empty(t, notification.Derive([]entity.Movement{pending("p", entity.AccountPayable, 31)}, today, nil))
}

func TestDerive_FiltraNoAplicables(t *testing.T) {
	paid := pending("paid", entity.AccountReceivable, -3)
	paid.Status = entity.StatusPaid
	cash := pending("cash", entity.AccountCash, -3)
	noDue := pending("nodue", entity.AccountPayable, -3)
	noDue.DueDate = nil

	got := notification.Derive([]entity.Movement{paid, cash, noDue}, today, nil)
	assert.Empty(t, got)
}

func TestDerive_Descartadas(t *testing.T) {
	movs := []entity.Movement{pending("a", entity.AccountPayable, -1), pending("b", entity.AccountReceivable, 3)}
	got := notification.Derive(movs, today, map[string]bool{"a": true})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Contains(t, got[0].Message, "Cuenta por cobrar")
}

func TestDerive_AltaSeveridadPrimero(t *testing.T) {
	movs := []entity.Movement{
		pending("low", entity.AccountPayable, 20),
		pending("med", entity.AccountPayable, 2),
		pending("high1", entity.AccountPayable, -2),
		pending("med2", entity.AccountReceivable, 1),
		pending("high2", entity.AccountReceivable, -9),
	}
	got := notification.Derive(movs, today, nil)
	require.Len(t, got, 5)
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"high1", "high2", "low", "med", "med2"}, ids)
}

func TestDaysUntil_NormalizaHoras(t *testing.T) {
	due := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, notification.DaysUntil(time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC), due))
	assert.Equal(t, -1, notification.DaysUntil(time.Date(2024, 6, 17, 1, 0, 0, 0, time.UTC), due))
}
