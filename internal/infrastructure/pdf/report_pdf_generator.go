// Package pdf genera la representación PDF de los estados financieros.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + RFC/Tax ID │ Tipo de reporte + Folio     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PERIODO / GENERADO POR                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUERPO: secciones según el tipo (resultados/balance/flujo) │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RAZONES FINANCIERAS + ANÁLISIS                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

var _ ports.ReportPDFGenerator = (*ReportPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 24, Green: 62, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var reportTitles = map[entity.ReportType]string{
	entity.ReportIncomeStatement: "ESTADO DE RESULTADOS",
	entity.ReportBalanceSheet:    "BALANCE GENERAL",
	entity.ReportCashFlow:        "ESTADO DE FLUJO DE EFECTIVO",
}

// ReportPDFGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
// Los montos se formatean con el printer de x/text según el idioma configurado.
type ReportPDFGenerator struct {
	tag language.Tag
}

// NewReportPDFGenerator construye el generador. tag suele ser language.LatinAmericanSpanish.
func NewReportPDFGenerator(tag language.Tag) *ReportPDFGenerator {
	return &ReportPDFGenerator{tag: tag}
}

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *ReportPDFGenerator) GenerateReportPDF(_ context.Context, report *entity.FinancialReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	w := &writer{p: message.NewPrinter(g.tag)}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(reportTitles[report.Type]+" "+report.Folio, true).
		WithAuthor(report.CompanySnapshot.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(w.header(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(w.periodRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	switch {
	case report.Data.IncomeStatement != nil:
		m.AddRows(w.incomeStatement(report.Data.IncomeStatement)...)
	case report.Data.BalanceSheet != nil:
		m.AddRows(w.balanceSheet(report.Data.BalanceSheet)...)
	case report.Data.CashFlow != nil:
		m.AddRows(w.cashFlow(report.Data.CashFlow)...)
	}

	if len(report.Ratios) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(w.ratios(report.Ratios)...)
	}
	if report.AIAnalysis != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("ANÁLISIS"))
		m.AddRows(row.New(40).Add(col.New(12).Add(
			text.New(report.AIAnalysis, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// writer agrupa el formateo localizado de las secciones.
type writer struct {
	p *message.Printer
}

func (w *writer) money(d decimal.Decimal) string {
	return w.p.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (w *writer) header(r *entity.FinancialReport) core.Row {
	snap := r.CompanySnapshot
	return row.New(20).Add(
		col.New(7).Add(
			text.New(snap.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("RFC / Tax ID: "+nonEmpty(snap.TaxID, "-"), props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(nonEmpty(snap.Address, "-"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(reportTitles[r.Type], props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Folio, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7}),
			text.New("Emitido: "+r.DateGenerated.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (w *writer) periodRow(r *entity.FinancialReport) core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New(
			fmt.Sprintf("Periodo: %s al %s", r.PeriodStart.Format("02/01/2006"), r.PeriodEnd.Format("02/01/2006")),
			props.Text{Size: 8, Top: 2},
		)),
		col.New(4).Add(text.New("Generado por: "+r.GeneratedBy, props.Text{Size: 8, Top: 2, Align: align.Right})),
	)
}

func (w *writer) incomeStatement(d *entity.IncomeStatementData) []core.Row {
	rows := []core.Row{sectionTitle("INGRESOS")}
	rows = append(rows, w.movementRows(d.Revenues)...)
	rows = append(rows, w.totalRow("Total ingresos", d.TotalRevenue, false))
	rows = append(rows, sectionTitle("GASTOS"))
	rows = append(rows, w.movementRows(d.Expenses)...)
	rows = append(rows,
		w.totalRow("Total gastos", d.TotalExpenses, false),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		w.totalRow("Utilidad antes de impuestos", d.IncomeBeforeTax, false),
		w.totalRow(fmt.Sprintf("Impuestos (%s%%)", d.TaxRate.StringFixed(2)), d.TaxAmount, false),
		w.totalRow("UTILIDAD NETA", d.NetIncome, true),
	)
	return rows
}

func (w *writer) balanceSheet(d *entity.BalanceSheetData) []core.Row {
	rows := []core.Row{
		sectionTitle("ACTIVOS"),
		w.totalRow("Efectivo y equivalentes", d.Assets.CashAndEquivalents, false),
		w.totalRow("Cuentas por cobrar", d.Assets.AccountsReceivable, false),
		w.totalRow("Activo fijo", d.Assets.FixedAssets, false),
		w.totalRow("Total activos", d.Assets.TotalAssets, true),
		sectionTitle("PASIVOS"),
		w.totalRow("Cuentas por pagar", d.Liabilities.AccountsPayable, false),
		w.totalRow("Deuda a largo plazo", d.Liabilities.LongTermDebt, false),
		w.totalRow("Total pasivos", d.Liabilities.TotalLiabilities, true),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		w.totalRow("CAPITAL", d.Equity, true),
	}
	if len(d.Details.PendingReceivables) > 0 {
		rows = append(rows, sectionTitle("CUENTAS POR COBRAR PENDIENTES"))
		rows = append(rows, w.movementRows(d.Details.PendingReceivables)...)
	}
	if len(d.Details.PendingPayables) > 0 {
		rows = append(rows, sectionTitle("CUENTAS POR PAGAR PENDIENTES"))
		rows = append(rows, w.movementRows(d.Details.PendingPayables)...)
	}
	return rows
}

func (w *writer) cashFlow(d *entity.CashFlowData) []core.Row {
	rows := []core.Row{sectionTitle("ACTIVIDADES DE OPERACIÓN")}
	rows = append(rows, w.movementRows(d.Details.OperatingTransactions)...)
	rows = append(rows, w.totalRow("Flujo de operación", d.OperatingActivities, false))
	rows = append(rows, sectionTitle("ACTIVIDADES DE INVERSIÓN"))
	rows = append(rows, w.movementRows(d.Details.InvestingTransactions)...)
	rows = append(rows, w.totalRow("Flujo de inversión", d.InvestingActivities, false))
	rows = append(rows, sectionTitle("ACTIVIDADES DE FINANCIAMIENTO"))
	rows = append(rows, w.movementRows(d.Details.FinancingTransactions)...)
	rows = append(rows,
		w.totalRow("Flujo de financiamiento", d.FinancingActivities, false),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		w.totalRow("FLUJO NETO DE EFECTIVO", d.NetCashFlow, true),
	)
	if len(d.RegisterTransfers) > 0 {
		rows = append(rows, sectionTitle("TRANSFERENCIAS ENTRE CAJAS"))
		for _, t := range d.RegisterTransfers {
			rows = append(rows, row.New(6).Add(
				col.New(6).Add(text.New(t.CashRegisterID, props.Text{Size: 7, Top: 1, Color: colorGray})),
				col.New(2).Add(text.New(w.money(t.Incoming), props.Text{Size: 8, Top: 1, Align: align.Right})),
				col.New(2).Add(text.New(w.money(t.Outgoing), props.Text{Size: 8, Top: 1, Align: align.Right})),
				col.New(2).Add(text.New(w.money(t.Net), props.Text{Size: 8, Top: 1, Align: align.Right})),
			))
		}
	}
	return rows
}

func (w *writer) ratios(ratios []entity.FinancialRatio) []core.Row {
	rows := []core.Row{sectionTitle("RAZONES FINANCIERAS")}
	for _, r := range ratios {
		height := 6.0
		if r.Analysis != "" {
			height = 12
		}
		c := col.New(8).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Style: fontstyle.Bold}))
		if r.Analysis != "" {
			c.Add(text.New(r.Analysis, props.Text{Size: 7, Top: 5, Color: colorGray}))
		}
		rows = append(rows, row.New(height).Add(
			c,
			col.New(4).Add(text.New(r.Value, props.Text{Size: 9, Top: 1, Align: align.Right})),
		))
	}
	return rows
}

// movementRows: una fila por movimiento (fecha, descripción, monto).
func (w *writer) movementRows(items []entity.Movement) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(5).Add(col.New(12).Add(
			text.New("Sin movimientos en el periodo", props.Text{Size: 7, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, mv := range items {
		result = append(result, row.New(5).Add(
			col.New(2).Add(text.New(mv.Date.Format("02/01/2006"), props.Text{Size: 7, Top: 1})),
			col.New(7).Add(text.New(mv.Description, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(3).Add(text.New(w.money(mv.Amount), props.Text{Size: 7, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return result
}

func (w *writer) totalRow(label string, v decimal.Decimal, bold bool) core.Row {
	ps := props.Text{Size: 9, Top: 1, Align: align.Right, Right: 1}
	if bold {
		ps.Style = fontstyle.Bold
		ps.Color = colorPrimary
	}
	vs := ps
	if v.IsNegative() {
		vs.Color = colorRed
	}
	return row.New(6).Add(
		col.New(3),
		col.New(6).Add(text.New(label, ps)),
		col.New(3).Add(text.New(w.money(v), vs)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
