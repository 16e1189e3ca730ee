package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/ledger"
	"github.com/mdjvazquez/finmks-v/internal/domain/notification"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// NotificationUseCase alertas de vencimiento derivadas en cada lectura; los descartes son por usuario.
type NotificationUseCase struct {
	ledger    repository.LedgerRepository
	dismissed ports.DismissalStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(ledgerRepo repository.LedgerRepository, dismissed ports.DismissalStore, log zerolog.Logger) *NotificationUseCase {
	return &NotificationUseCase{ledger: ledgerRepo, dismissed: dismissed, log: log, now: time.Now}
}

// List deriva las notificaciones de hoy para el principal.
func (uc *NotificationUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.NotificationResponse, error) {
	if err := session.Authorize(p, permission.NotificationsView); err != nil {
		return nil, err
	}
	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return nil, err
	}
	dismissed, err := uc.dismissed.Dismissed(ctx, p.UserID)
	if err != nil {
		// Sin descartes se muestran todas; no se bloquea la lectura.
		uc.log.Warn().Err(err).Str("user_id", p.UserID).Msg("no se pudieron leer los descartes")
		dismissed = nil
	}
	items := notification.Derive(ledger.Transactions(movements), uc.now(), dismissed)
	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificationResponse{
			ID:            n.ID,
			TransactionID: n.TransactionID,
			Message:       n.Message,
			Severity:      string(n.Severity),
			Date:          formatDay(n.Date),
			Type:          string(n.Type),
		})
	}
	return out, nil
}

// Dismiss oculta la notificación para el usuario; no modifica la transacción.
func (uc *NotificationUseCase) Dismiss(ctx context.Context, p *permission.Principal, id string) error {
	if err := session.Authorize(p, permission.NotificationsView); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.dismissed.Dismiss(ctx, p.UserID, id)
}

