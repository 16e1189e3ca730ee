package postgres

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo persistencia de reportes financieros. Snapshot, payload y razones viajan como JSONB
// (el codec JSON de pgx hace el marshal de los structs).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const reportColumns = `id, company_id, folio, type, date_generated, period_start, period_end, generated_by,
	company_snapshot, data, ratios, ai_analysis`

// Create persiste un reporte. El folio es único por empresa.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.FinancialReport) error {
	query := `
		INSERT INTO financial_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	ratios := rep.Ratios
	if ratios == nil {
		ratios = []entity.FinancialRatio{}
	}
	_, err := r.q.Exec(ctx, query,
		rep.ID, rep.CompanyID, rep.Folio, string(rep.Type), rep.DateGenerated,
		rep.PeriodStart, rep.PeriodEnd, rep.GeneratedBy,
		rep.CompanySnapshot, rep.Data, ratios, rep.AIAnalysis,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: folio %s", domain.ErrDuplicate, rep.Folio)
		}
		return fmt.Errorf("insert financial report: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte de la empresa.
func (r *ReportRepo) GetByID(ctx context.Context, companyID, id string) (*entity.FinancialReport, error) {
	query := `SELECT ` + reportColumns + ` FROM financial_reports WHERE company_id = $1 AND id = $2`
	rep, err := scanReport(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get financial report: %w", err)
	}
	return rep, nil
}

// ListByCompany lista los reportes, el más reciente primero.
func (r *ReportRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.FinancialReport, error) {
	query := `SELECT ` + reportColumns + ` FROM financial_reports
		WHERE company_id = $1 ORDER BY date_generated DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list financial reports: %w", err)
	}
	defer rows.Close()
	var list []*entity.FinancialReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// UpdateAnalysis solo toca ratios y ai_analysis; el resto del reporte es inmutable.
func (r *ReportRepo) UpdateAnalysis(ctx context.Context, companyID, id string, ratios []entity.FinancialRatio, aiAnalysis string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE financial_reports SET ratios = $3, ai_analysis = $4 WHERE company_id = $1 AND id = $2`,
		companyID, id, ratios, aiAnalysis,
	)
	if err != nil {
		return fmt.Errorf("update report analysis: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReport(row pgxScanner) (*entity.FinancialReport, error) {
	var (
		rep entity.FinancialReport
		typ string
	)
	err := row.Scan(
		&rep.ID, &rep.CompanyID, &rep.Folio, &typ, &rep.DateGenerated,
		&rep.PeriodStart, &rep.PeriodEnd, &rep.GeneratedBy,
		&rep.CompanySnapshot, &rep.Data, &rep.Ratios, &rep.AIAnalysis,
	)
	if err != nil {
		return nil, err
	}
	rep.Type = entity.ReportType(typ)
	return &rep, nil
}
