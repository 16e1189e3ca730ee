package statement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/statement"
)

func day(s string) time.Time {
	t, err := entity.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mv(id, date string, amount int64, g entity.ActivityGroup, typ entity.TransactionType, acc entity.AccountType, st entity.TransactionStatus) entity.Movement {
	return entity.Movement{
		ID: id, Date: day(date), Amount: dec(amount), Group: g, Type: typ,
		AccountType: acc, Status: st, CashRegisterID: "R",
	}
}

func xfer(id, date string, amount int64, from, to string) entity.Movement {
	return entity.Movement{
		ID: id, Date: day(date), Amount: dec(amount), Group: entity.GroupFinancing, Type: entity.TypeTransfer,
		AccountType: entity.AccountCash, Status: entity.StatusPaid, CashRegisterID: from, DestinationCashRegisterID: to,
	}
}

func sample() []entity.Movement {
	return []entity.Movement{
		mv("old", "2023-12-15", 400, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPaid),
		mv("i1", "2024-01-01", 1000, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPaid),
		mv("i2", "2024-01-20", 500, entity.GroupOperating, entity.TypeIncome, entity.AccountReceivable, entity.StatusPending),
		mv("e1", "2024-01-10", 300, entity.GroupOperating, entity.TypeExpense, entity.AccountPayable, entity.StatusPending),
		mv("e2", "2024-01-31", 200, entity.GroupInvesting, entity.TypeExpense, entity.AccountCash, entity.StatusPaid),
		mv("f1", "2024-01-15", 800, entity.GroupFinancing, entity.TypeIncome, entity.AccountPayable, entity.StatusPaid),
		xfer("t1", "2024-01-05", 150, "R", "R2"),
		mv("late", "2024-02-01", 999, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPaid),
	}
}

func TestInPeriod_LimitesInclusivos(t *testing.T) {
	got := statement.InPeriod(sample(), day("2024-01-01"), day("2024-01-31"))
	ids := map[string]bool{}
	for _, m := range got {
		ids[m.ID] = true
	}
	assert.True(t, ids["i1"], "el inicio es inclusivo")
	assert.True(t, ids["e2"], "el fin es inclusivo")
	assert.False(t, ids["old"])
	assert.False(t, ids["late"])
}

func TestIncomeStatement_BaseDevengado(t *testing.T) {
	data, ratios := statement.IncomeStatement(sample(), day("2024-01-01"), day("2024-01-31"), dec(16))

	// i1 + i2 (pendiente) + f1; las transferencias no cuentan.
	assert.True(t, data.TotalRevenue.Equal(dec(2300)), data.TotalRevenue.String())
	assert.True(t, data.TotalExpenses.Equal(dec(500)))
	assert.True(t, data.IncomeBeforeTax.Equal(dec(1800)))
	assert.True(t, data.TaxAmount.Equal(dec(288)))
	assert.True(t, data.NetIncome.Equal(dec(1512)))
	assert.Len(t, data.Revenues, 3)
	assert.Len(t, data.Expenses, 2)

	require.Len(t, ratios, 2)
	assert.Equal(t, statement.RatioNetProfitMargin, ratios[0].Name)
	assert.Equal(t, "65.74%", ratios[0].Value)
}

func TestIncomeStatement_TotalesCuadranParaTodaTasa(t *testing.T) {
	for rate := int64(0); rate <= 100; rate += 5 {
		data, _ := statement.IncomeStatement(sample(), day("2024-01-01"), day("2024-01-31"), dec(rate))
		assert.True(t, data.IncomeBeforeTax.Equal(data.TotalRevenue.Sub(data.TotalExpenses)), "tasa %d", rate)
		assert.True(t, data.NetIncome.Equal(data.IncomeBeforeTax.Sub(data.TaxAmount)), "tasa %d", rate)
		assert.False(t, data.TaxAmount.IsNegative(), "tasa %d", rate)
	}
	// Tasa con decimales.
	data, _ := statement.IncomeStatement(sample(), day("2024-01-01"), day("2024-01-31"), decimal.RequireFromString("12.5"))
	assert.True(t, data.NetIncome.Equal(data.IncomeBeforeTax.Sub(data.TaxAmount)))
}

func TestIncomeStatement_ImpuestoNoNegativo(t *testing.T) {
	movs := []entity.Movement{
		mv("i", "2024-03-01", 100, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPaid),
		mv("e", "2024-03-02", 500, entity.GroupOperating, entity.TypeExpense, entity.AccountCash, entity.StatusPaid),
	}
	data, ratios := statement.IncomeStatement(movs, day("2024-03-01"), day("2024-03-31"), dec(16))
	assert.True(t, data.IncomeBeforeTax.Equal(dec(-400)))
	assert.True(t, data.TaxAmount.IsZero())
	assert.True(t, data.NetIncome.Equal(dec(-400)))
	assert.Equal(t, "-400.00%", ratios[0].Value)
}

func TestIncomeStatement_SinIngresosNoDivide(t *testing.T) {
	data, ratios := statement.IncomeStatement(nil, day("2024-03-01"), day("2024-03-31"), dec(16))
	assert.True(t, data.TotalRevenue.IsZero())
	assert.Equal(t, "0%", ratios[0].Value)
	assert.Equal(t, "0%", ratios[1].Value)
	assert.NotNil(t, data.Revenues)
}

func TestBalanceSheet_PuntoEnElTiempo(t *testing.T) {
	data, ratios := statement.BalanceSheet(sample(), day("2024-01-31"))

	// Efectivo: old + i1 + f1 (pagado) - e2; la transferencia no clasifica. 'late' queda fuera.
	assert.True(t, data.Assets.CashAndEquivalents.Equal(dec(2000)), data.Assets.CashAndEquivalents.String())
	assert.True(t, data.Assets.AccountsReceivable.Equal(dec(500)))
	assert.True(t, data.Assets.TotalAssets.Equal(dec(2500)))
	assert.True(t, data.Liabilities.AccountsPayable.Equal(dec(300)))
	assert.True(t, data.Liabilities.TotalLiabilities.Equal(dec(300)))
	assert.True(t, data.Equity.Equal(dec(2200)))
	require.Len(t, data.Details.PendingReceivables, 1)
	assert.Equal(t, "i2", data.Details.PendingReceivables[0].ID)
	require.Len(t, data.Details.PendingPayables, 1)
	assert.Equal(t, "e1", data.Details.PendingPayables[0].ID)

	assert.Equal(t, "8.33", ratios[0].Value)
	assert.Equal(t, "0.12", ratios[1].Value)
}

func TestBalanceSheet_PendienteEnCajaCuentaDosVeces(t *testing.T) {
	// Criterio literal: un CASH pendiente cuenta como efectivo y también como cuenta por cobrar/pagar.
	movs := []entity.Movement{
		mv("i", "2024-01-10", 100, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPending),
		mv("e", "2024-01-11", 30, entity.GroupOperating, entity.TypeExpense, entity.AccountCash, entity.StatusPending),
	}
	data, _ := statement.BalanceSheet(movs, day("2024-01-31"))
	assert.True(t, data.Assets.CashAndEquivalents.Equal(dec(70)), data.Assets.CashAndEquivalents.String())
	assert.True(t, data.Assets.AccountsReceivable.Equal(dec(100)))
	assert.True(t, data.Liabilities.AccountsPayable.Equal(dec(30)))
	assert.True(t, data.Assets.TotalAssets.Equal(dec(170)))
	assert.True(t, data.Equity.Equal(dec(140)))
	assert.Len(t, data.Details.PendingReceivables, 1)
}

func TestBalanceSheet_SinPasivosEsNA(t *testing.T) {
	movs := []entity.Movement{
		mv("i", "2024-01-01", 100, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPaid),
	}
	_, ratios := statement.BalanceSheet(movs, day("2024-01-31"))
	assert.Equal(t, "N/A", ratios[0].Value)
	assert.Equal(t, "0.00", ratios[1].Value)

	_, ratios = statement.BalanceSheet(nil, day("2024-01-31"))
	assert.Equal(t, "N/A", ratios[0].Value)
	assert.Equal(t, "N/A", ratios[1].Value)
}

func TestBalanceSheet_NoDependeDelInicio(t *testing.T) {
	end := day("2024-01-31")
	base, err := statement.Generate(entity.ReportBalanceSheet, sample(), day("2024-01-01"), end, dec(16))
	require.NoError(t, err)
	for _, start := range []string{"2000-01-01", "2023-12-31", "2024-01-20", "2024-12-31"} {
		other, err := statement.Generate(entity.ReportBalanceSheet, sample(), day(start), end, dec(16))
		require.NoError(t, err)
		assert.Equal(t, base, other, "inicio %s", start)
	}
}

func TestCashFlow_BaseCaja(t *testing.T) {
	movs := append(sample(),
		mv("pc", "2024-01-25", 60, entity.GroupOperating, entity.TypeIncome, entity.AccountCash, entity.StatusPending),
	)
	data, ratios := statement.CashFlow(movs, day("2024-01-01"), day("2024-01-31"))

	// Operación: i1 + pc (CASH pendiente cuenta); i2 y e1 pendientes no cuentan.
	assert.True(t, data.OperatingActivities.Equal(dec(1060)), data.OperatingActivities.String())
	assert.True(t, data.InvestingActivities.Equal(dec(-200)))
	assert.True(t, data.FinancingActivities.Equal(dec(800)))
	assert.True(t, data.NetCashFlow.Equal(dec(1660)))
	assert.Len(t, data.Details.OperatingTransactions, 2)
	assert.Len(t, data.Details.InvestingTransactions, 1)
	assert.Len(t, data.Details.FinancingTransactions, 1, "la transferencia no entra en financiamiento")

	require.Len(t, data.RegisterTransfers, 2)
	assert.Equal(t, "R", data.RegisterTransfers[0].CashRegisterID)
	assert.True(t, data.RegisterTransfers[0].Net.Equal(dec(-150)))
	assert.Equal(t, "R2", data.RegisterTransfers[1].CashRegisterID)
	assert.True(t, data.RegisterTransfers[1].Incoming.Equal(dec(150)))

	require.Len(t, ratios, 1)
	assert.Equal(t, statement.RatioCashFlowMargin, ratios[0].Name)
}

func TestGenerate_RangoInvertidoDaVacio(t *testing.T) {
	res, err := statement.Generate(entity.ReportIncomeStatement, sample(), day("2024-02-01"), day("2024-01-01"), dec(16))
	require.NoError(t, err)
	require.NotNil(t, res.Data.IncomeStatement)
	assert.Empty(t, res.Data.IncomeStatement.Revenues)
	assert.True(t, res.Data.IncomeStatement.NetIncome.IsZero())

	res, err = statement.Generate(entity.ReportCashFlow, sample(), day("2024-02-01"), day("2024-01-01"), dec(16))
	require.NoError(t, err)
	assert.True(t, res.Data.CashFlow.NetCashFlow.IsZero())
}

func TestGenerate_TipoDesconocido(t *testing.T) {
	_, err := statement.Generate("PROFIT_AND_LOSS", nil, day("2024-01-01"), day("2024-01-31"), dec(16))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewFolio_Formato(t *testing.T) {
	now := time.UnixMilli(1_717_171_234_567)
	assert.Equal(t, "FOL-234567", statement.NewFolio(now, 0))
	assert.Equal(t, "FOL-234567-2", statement.NewFolio(now, 2))
	assert.Equal(t, "FOL-000042", statement.NewFolio(time.UnixMilli(5_000_042), 0))
}
