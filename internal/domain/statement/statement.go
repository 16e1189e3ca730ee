// Package statement genera estados financieros y razones a partir del flujo de movimientos.
package statement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Result estado generado con sus razones. No incluye folio ni snapshot: los asigna el caso de uso.
type Result struct {
	Type   entity.ReportType
	Data   entity.ReportData
	Ratios []entity.FinancialRatio
}

// Generate calcula el estado del tipo indicado. Un rango con inicio posterior al fin es válido
// y produce un periodo vacío.
func Generate(reportType entity.ReportType, movements []entity.Movement, periodStart, periodEnd time.Time, taxRatePercent decimal.Decimal) (Result, error) {
	switch reportType {
	case entity.ReportIncomeStatement:
		data, ratios := IncomeStatement(movements, periodStart, periodEnd, taxRatePercent)
		return Result{Type: reportType, Data: entity.ReportData{IncomeStatement: data}, Ratios: ratios}, nil
	case entity.ReportBalanceSheet:
		data, ratios := BalanceSheet(movements, periodEnd)
		return Result{Type: reportType, Data: entity.ReportData{BalanceSheet: data}, Ratios: ratios}, nil
	case entity.ReportCashFlow:
		data, ratios := CashFlow(movements, periodStart, periodEnd)
		return Result{Type: reportType, Data: entity.ReportData{CashFlow: data}, Ratios: ratios}, nil
	default:
		return Result{}, fmt.Errorf("%w: tipo de reporte %q", domain.ErrInvalidInput, reportType)
	}
}

// InPeriod filtra movimientos con periodStart <= fecha <= periodEnd (ambos inclusive, por día).
func InPeriod(movements []entity.Movement, periodStart, periodEnd time.Time) []entity.Movement {
	start, end := entity.Day(periodStart), entity.Day(periodEnd)
	out := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		d := entity.Day(m.Date)
		if !d.Before(start) && !d.After(end) {
			out = append(out, m)
		}
	}
	return out
}

// UpTo filtra movimientos con fecha <= periodEnd, sin límite inferior.
func UpTo(movements []entity.Movement, periodEnd time.Time) []entity.Movement {
	end := entity.Day(periodEnd)
	out := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if !entity.Day(m.Date).After(end) {
			out = append(out, m)
		}
	}
	return out
}

func sum(movements []entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Amount)
	}
	return total
}

func filter(movements []entity.Movement, keep func(entity.Movement) bool) []entity.Movement {
	out := make([]entity.Movement, 0)
	for _, m := range movements {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// percent formatea num/den como "x.xx%"; con denominador cero devuelve zeroValue.
func percent(num, den decimal.Decimal, zeroValue string) string {
	if den.IsZero() {
		return zeroValue
	}
	return num.Div(den).Mul(hundred).StringFixed(2) + "%"
}

// ratio formatea num/den con dos decimales; con denominador cero devuelve "N/A".
func ratio(num, den decimal.Decimal) string {
	if den.IsZero() {
		return "N/A"
	}
	return num.Div(den).StringFixed(2)
}
