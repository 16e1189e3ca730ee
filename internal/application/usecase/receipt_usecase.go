package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

const (
	receiptTimeout  = 10 * time.Second
	maxReceiptBytes = 10 << 20
)

// ReceiptUseCase sugiere una transacción a partir de la foto de un comprobante.
// Es best-effort: cualquier fallo del analizador se reporta como ErrAnalysisUnavailable.
type ReceiptUseCase struct {
	analyzer ports.ReceiptAnalyzer
	log      zerolog.Logger
}

// NewReceiptUseCase construye el caso de uso. analyzer puede ser nil.
func NewReceiptUseCase(analyzer ports.ReceiptAnalyzer, log zerolog.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{analyzer: analyzer, log: log}
}

// Analyze extrae los campos reconocibles; los valores fuera de catálogo se descartan.
func (uc *ReceiptUseCase) Analyze(ctx context.Context, p *permission.Principal, image []byte, mimeType string) (*dto.ReceiptSuggestion, error) {
	if err := session.Authorize(p, permission.TransactionsCreate); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: la imagen es obligatoria", domain.ErrInvalidInput)
	}
	if len(image) > maxReceiptBytes {
		return nil, fmt.Errorf("%w: la imagen supera 10 MB", domain.ErrInvalidInput)
	}
	if uc.analyzer == nil {
		return nil, domain.ErrAnalysisUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()

	s, err := uc.analyzer.AnalyzeReceipt(ctx, image, mimeType)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", p.CompanyID).Msg("análisis de comprobante no disponible")
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}
	if s == nil {
		return nil, domain.ErrAnalysisUnavailable
	}
	return sanitizeSuggestion(s), nil
}

func sanitizeSuggestion(s *dto.ReceiptSuggestion) *dto.ReceiptSuggestion {
	out := *s
	if out.Amount != nil && !out.Amount.IsPositive() {
		out.Amount = nil
	}
	if _, err := entity.ParseDay(out.Date); err != nil {
		out.Date = ""
	}
	if _, err := entity.ParseDay(out.DueDate); err != nil {
		out.DueDate = ""
	}
	if !entity.ActivityGroup(out.Group).Valid() {
		out.Group = ""
	}
	if t := entity.TransactionType(out.Type); t != entity.TypeIncome && t != entity.TypeExpense {
		out.Type = ""
	}
	if !entity.AccountType(out.AccountType).Valid() {
		out.AccountType = ""
	}
	if !entity.TransactionStatus(out.Status).Valid() {
		out.Status = ""
	}
	return &out
}
