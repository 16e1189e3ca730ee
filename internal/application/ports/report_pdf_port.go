package ports

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// ReportPDFGenerator genera la representación PDF de un reporte financiero.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *entity.FinancialReport) ([]byte, error)
}
