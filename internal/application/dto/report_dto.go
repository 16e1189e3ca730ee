package dto

import (
	"time"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// GenerateReportRequest generación de un estado financiero para un rango de fechas.
type GenerateReportRequest struct {
	Type        string `json:"type" validate:"required,oneof=INCOME_STATEMENT BALANCE_SHEET CASH_FLOW"`
	PeriodStart string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" validate:"required,datetime=2006-01-02"`
}

// AnalyzeReportRequest idioma de la narración (ES o EN; vacío usa el idioma del usuario).
type AnalyzeReportRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=ES EN es en"`
}

// ReportResponse reporte persistido.
type ReportResponse struct {
	ID              string                  `json:"id"`
	Folio           string                  `json:"folio"`
	Type            string                  `json:"type"`
	DateGenerated   time.Time               `json:"date_generated"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	GeneratedBy     string                  `json:"generated_by"`
	CompanySnapshot entity.CompanySnapshot  `json:"company_snapshot"`
	Data            entity.ReportData       `json:"data"`
	Ratios          []entity.FinancialRatio `json:"ratios"`
	AIAnalysis      string                  `json:"ai_analysis,omitempty"`
}

// ReportSummary elemento del listado de reportes (sin payload).
type ReportSummary struct {
	ID            string    `json:"id"`
	Folio         string    `json:"folio"`
	Type          string    `json:"type"`
	DateGenerated time.Time `json:"date_generated"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	GeneratedBy   string    `json:"generated_by"`
	HasAnalysis   bool      `json:"has_analysis"`
}

// AnalyzeReportResponse reporte con la narración adjunta; Available=false si la IA no respondió.
type AnalyzeReportResponse struct {
	Available bool           `json:"available"`
	Message   string         `json:"message,omitempty"`
	Report    ReportResponse `json:"report"`
}

// NarrationRequest entrada del narrador externo.
type NarrationRequest struct {
	ReportType entity.ReportType
	Data       entity.ReportData
	Ratios     []entity.FinancialRatio
	Language   string // ES o EN
}

// NarrationResult salida del narrador: resumen y razones anotadas (mismo nombre y valor).
type NarrationResult struct {
	Summary string
	Ratios  []entity.FinancialRatio
}
