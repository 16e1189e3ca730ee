package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceCache guarda los saldos derivados por empresa. Debe invalidarse en cada mutación del libro.
// Cada Invalidate incrementa la versión de la empresa; Set solo escribe si la versión leída antes
// de recalcular sigue vigente, así un recálculo que cruzó una mutación no repone saldos viejos.
type BalanceCache interface {
	// Get devuelve ok=false si no hay entrada vigente.
	Get(ctx context.Context, companyID string) (balances map[string]decimal.Decimal, ok bool, err error)
	Version(ctx context.Context, companyID string) (int64, error)
	// Set devuelve stored=false si la versión cambió.
	Set(ctx context.Context, companyID string, version int64, balances map[string]decimal.Decimal) (stored bool, err error)
	Invalidate(ctx context.Context, companyID string) error
}

// DismissalStore conjunto de notificaciones descartadas por usuario, con vigencia de sesión.
type DismissalStore interface {
	Dismiss(ctx context.Context, userID, notificationID string) error
	Dismissed(ctx context.Context, userID string) (map[string]bool, error)
}
