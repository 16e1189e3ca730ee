package ports

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
)

// ReceiptAnalyzer puerto de salida para extraer una transacción sugerida de la imagen de un comprobante.
// Es best-effort: un error nunca impide el registro manual.
type ReceiptAnalyzer interface {
	AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*dto.ReceiptSuggestion, error)
}

// ReportNarrator puerto de salida para la narración de un reporte. Puramente aditivo:
// debe devolver las razones con el mismo nombre y valor, agregando solo el análisis.
type ReportNarrator interface {
	Narrate(ctx context.Context, req dto.NarrationRequest) (*dto.NarrationResult, error)
}
