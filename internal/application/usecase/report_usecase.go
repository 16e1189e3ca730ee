package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
	"github.com/mdjvazquez/finmks-v/internal/domain/statement"
)

const (
	narrationTimeout  = 10 * time.Second
	maxFolioAttempts  = 5
	analysisFailedMsg = "analysis unavailable"
)

var narrationMatcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// ReportUseCase genera, persiste, narra y exporta estados financieros.
type ReportUseCase struct {
	reports   repository.ReportRepository
	companies repository.CompanyRepository
	ledger    repository.LedgerRepository
	narrator  ports.ReportNarrator
	pdf       ports.ReportPDFGenerator
	log       zerolog.Logger
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. narrator puede ser nil: el análisis queda no disponible.
func NewReportUseCase(
	reports repository.ReportRepository,
	companies repository.CompanyRepository,
	ledgerRepo repository.LedgerRepository,
	narrator ports.ReportNarrator,
	pdf ports.ReportPDFGenerator,
	log zerolog.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		reports:   reports,
		companies: companies,
		ledger:    ledgerRepo,
		narrator:  narrator,
		pdf:       pdf,
		log:       log,
		now:       time.Now,
	}
}

// Generate calcula el estado sobre el flujo actual y lo persiste con folio y copia de la empresa.
func (uc *ReportUseCase) Generate(ctx context.Context, p *permission.Principal, in dto.GenerateReportRequest) (*dto.ReportResponse, error) {
	if err := session.Authorize(p, permission.ReportsCreate); err != nil {
		return nil, err
	}
	reportType := entity.ReportType(in.Type)
	if !reportType.Valid() {
		return nil, fmt.Errorf("%w: tipo de reporte %q", domain.ErrInvalidInput, in.Type)
	}
	start, err := parseDay("period_start", in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDay("period_end", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return nil, err
	}
	result, err := statement.Generate(reportType, movements, start, end, company.TaxRate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	report := &entity.FinancialReport{
		CompanyID:       p.CompanyID,
		Type:            reportType,
		DateGenerated:   now,
		PeriodStart:     start,
		PeriodEnd:       end,
		GeneratedBy:     p.Name,
		CompanySnapshot: company.Snapshot(),
		Data:            result.Data,
		Ratios:          result.Ratios,
	}
	for attempt := 0; ; attempt++ {
		report.ID = uuid.New().String()
		report.Folio = statement.NewFolio(now, attempt)
		err = uc.reports.Create(ctx, report)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= maxFolioAttempts {
			return nil, err
		}
	}
	uc.log.Info().
		Str("company_id", p.CompanyID).
		Str("report_id", report.ID).
		Str("folio", report.Folio).
		Str("type", string(reportType)).
		Msg("reporte generado")
	out := toReportResponse(report)
	return &out, nil
}

// List devuelve los reportes de la empresa, más reciente primero.
func (uc *ReportUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.ReportSummary, error) {
	if err := session.Authorize(p, permission.ReportsView); err != nil {
		return nil, err
	}
	list, err := uc.reports.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportSummary, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReportSummary{
			ID:            r.ID,
			Folio:         r.Folio,
			Type:          string(r.Type),
			DateGenerated: r.DateGenerated,
			PeriodStart:   formatDay(r.PeriodStart),
			PeriodEnd:     formatDay(r.PeriodEnd),
			GeneratedBy:   r.GeneratedBy,
			HasAnalysis:   r.AIAnalysis != "",
		})
	}
	return out, nil
}

// Get devuelve un reporte con su payload.
func (uc *ReportUseCase) Get(ctx context.Context, p *permission.Principal, id string) (*dto.ReportResponse, error) {
	if err := session.Authorize(p, permission.ReportsView); err != nil {
		return nil, err
	}
	report, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	out := toReportResponse(report)
	return &out, nil
}

// Analyze adjunta la narración del reporte. Si el narrador falla el reporte se devuelve
// intacto con Available=false: nunca es un error del caso de uso.
func (uc *ReportUseCase) Analyze(ctx context.Context, p *permission.Principal, id string, in dto.AnalyzeReportRequest) (*dto.AnalyzeReportResponse, error) {
	if err := session.Authorize(p, permission.ReportsAnalyze); err != nil {
		return nil, err
	}
	report, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	unavailable := func(cause error) *dto.AnalyzeReportResponse {
		uc.log.Warn().Err(cause).Str("report_id", report.ID).Msg("narración de reporte no disponible")
		return &dto.AnalyzeReportResponse{Available: false, Message: analysisFailedMsg, Report: toReportResponse(report)}
	}
	if uc.narrator == nil {
		return unavailable(domain.ErrAnalysisUnavailable), nil
	}

	nctx, cancel := context.WithTimeout(ctx, narrationTimeout)
	defer cancel()
	result, err := uc.narrator.Narrate(nctx, dto.NarrationRequest{
		ReportType: report.Type,
		Data:       report.Data,
		Ratios:     report.Ratios,
		Language:   NarrationLanguage(in.Language, p.Language),
	})
	if err != nil {
		return unavailable(err), nil
	}
	if result == nil {
		return unavailable(domain.ErrAnalysisUnavailable), nil
	}

	ratios := mergeRatioAnalysis(report.Ratios, result.Ratios)
	if err := uc.reports.UpdateAnalysis(ctx, p.CompanyID, report.ID, ratios, result.Summary); err != nil {
		return nil, err
	}
	report.Ratios = ratios
	report.AIAnalysis = result.Summary
	return &dto.AnalyzeReportResponse{Available: true, Report: toReportResponse(report)}, nil
}

// PDF exporta el reporte; devuelve también el folio para nombrar el archivo.
func (uc *ReportUseCase) PDF(ctx context.Context, p *permission.Principal, id string) ([]byte, string, error) {
	if err := session.Authorize(p, permission.ReportsView); err != nil {
		return nil, "", err
	}
	report, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return pdf, report.Folio, nil
}

func (uc *ReportUseCase) get(ctx context.Context, companyID, id string) (*entity.FinancialReport, error) {
	report, err := uc.reports.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

// NarrationLanguage elige ES o EN con el primer candidato reconocible; por defecto ES.
func NarrationLanguage(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		tag, err := language.Parse(c)
		if err != nil {
			continue
		}
		_, idx, conf := narrationMatcher.Match(tag)
		if conf == language.No {
			continue
		}
		if idx == 1 {
			return entity.LanguageEN
		}
		return entity.LanguageES
	}
	return entity.LanguageES
}

// mergeRatioAnalysis conserva nombre y valor calculados y solo toma el análisis del narrador.
func mergeRatioAnalysis(computed, narrated []entity.FinancialRatio) []entity.FinancialRatio {
	byName := make(map[string]string, len(narrated))
	for _, r := range narrated {
		byName[r.Name] = r.Analysis
	}
	out := make([]entity.FinancialRatio, len(computed))
	for i, r := range computed {
		out[i] = entity.FinancialRatio{Name: r.Name, Value: r.Value, Analysis: byName[r.Name]}
	}
	return out
}

func toReportResponse(r *entity.FinancialReport) dto.ReportResponse {
	return dto.ReportResponse{
		ID:              r.ID,
		Folio:           r.Folio,
		Type:            string(r.Type),
		DateGenerated:   r.DateGenerated,
		PeriodStart:     formatDay(r.PeriodStart),
		PeriodEnd:       formatDay(r.PeriodEnd),
		GeneratedBy:     r.GeneratedBy,
		CompanySnapshot: r.CompanySnapshot,
		Data:            r.Data,
		Ratios:          r.Ratios,
		AIAnalysis:      r.AIAnalysis,
	}
}
