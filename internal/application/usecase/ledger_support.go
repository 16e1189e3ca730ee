package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/ledger"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// loadMovements lee transacciones y transferencias de la empresa y arma el flujo unificado.
func loadMovements(ctx context.Context, repo repository.LedgerRepository, companyID string) ([]entity.Movement, error) {
	txs, err := repo.ListTransactions(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	trs, err := repo.ListTransfers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar transferencias: %w", err)
	}
	return ledger.BuildMovementStream(txs, trs), nil
}

// parseDay exige una fecha YYYY-MM-DD.
func parseDay(field, value string) (time.Time, error) {
	t, err := entity.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// parseOptionalDay devuelve la fecha cero si value está vacío.
func parseOptionalDay(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDay(field, value)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entity.DateLayout)
}

func toMovementResponse(m entity.Movement) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:                        m.ID,
		Date:                      formatDay(m.Date),
		Description:               m.Description,
		Amount:                    m.Amount,
		Group:                     string(m.Group),
		Type:                      string(m.Type),
		AccountType:               string(m.AccountType),
		Status:                    string(m.Status),
		CashRegisterID:            m.CashRegisterID,
		DestinationCashRegisterID: m.DestinationCashRegisterID,
		ReceiptImage:              m.ReceiptImage,
	}
	if m.DueDate != nil {
		out.DueDate = formatDay(*m.DueDate)
	}
	return out
}

func toMovementResponses(movements []entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out
}
