package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/infrastructure/pdf"
)

func sampleReport(data entity.ReportData, typ entity.ReportType) *entity.FinancialReport {
	return &entity.FinancialReport{
		ID:            "rep-1",
		CompanyID:     "company-1",
		Folio:         "FIN-20240315-0001",
		Type:          typ,
		DateGenerated: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		PeriodStart:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		GeneratedBy:   "Ana Admin",
		CompanySnapshot: entity.CompanySnapshot{
			Name: "Acme", TaxID: "ACM010101AAA", TaxRate: decimal.NewFromInt(16),
		},
		Data:       data,
		Ratios:     []entity.FinancialRatio{{Name: "Margen Neto", Value: "42.00%", Analysis: "Sano"}},
		AIAnalysis: "Resultados positivos.",
	}
}

func TestGenerateReportPDF_EstadoDeResultados(t *testing.T) {
	g := pdf.NewReportPDFGenerator(language.LatinAmericanSpanish)
	rep := sampleReport(entity.ReportData{IncomeStatement: &entity.IncomeStatementData{
		Revenues: []entity.Movement{{
			ID: "t1", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Description: "Venta",
			Amount: decimal.NewFromInt(1500), Type: entity.TypeIncome,
		}},
		TotalRevenue:    decimal.NewFromInt(1500),
		IncomeBeforeTax: decimal.NewFromInt(1500),
		TaxRate:         decimal.NewFromInt(16),
		TaxAmount:       decimal.NewFromInt(240),
		NetIncome:       decimal.NewFromInt(1260),
	}}, entity.ReportIncomeStatement)

	out, err := g.GenerateReportPDF(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe generar un documento PDF")
}

func TestGenerateReportPDF_FlujoYBalance(t *testing.T) {
	g := pdf.NewReportPDFGenerator(language.English)
	for _, rep := range []*entity.FinancialReport{
		sampleReport(entity.ReportData{CashFlow: &entity.CashFlowData{
			NetCashFlow: decimal.NewFromInt(-50),
			RegisterTransfers: []entity.RegisterTransferFlow{{
				CashRegisterID: "reg-1", Incoming: decimal.NewFromInt(10), Net: decimal.NewFromInt(10),
			}},
		}}, entity.ReportCashFlow),
		sampleReport(entity.ReportData{BalanceSheet: &entity.BalanceSheetData{}}, entity.ReportBalanceSheet),
	} {
		out, err := g.GenerateReportPDF(context.Background(), rep)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	}
}

func TestGenerateReportPDF_ReporteNil(t *testing.T) {
	_, err := pdf.NewReportPDFGenerator(language.Spanish).GenerateReportPDF(context.Background(), nil)
	assert.Error(t, err)
}
