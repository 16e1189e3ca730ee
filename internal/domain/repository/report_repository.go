package repository

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// ReportRepository puerto de persistencia de reportes financieros.
type ReportRepository interface {
	// Create devuelve domain.ErrDuplicate si el folio ya existe en la empresa.
	Create(ctx context.Context, report *entity.FinancialReport) error
	GetByID(ctx context.Context, companyID, id string) (*entity.FinancialReport, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.FinancialReport, error)
	// UpdateAnalysis adjunta el análisis; es la única mutación permitida tras generar.
	UpdateAnalysis(ctx context.Context, companyID, id string, ratios []entity.FinancialRatio, aiAnalysis string) error
}
