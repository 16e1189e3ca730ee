package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

func newLedgerUseCases(f *fixture) (*TransactionUseCase, *CashRegisterUseCase) {
	txs := NewTransactionUseCase(f.store.Ledger(), f.store.Registers(), f.store.TxRunner(), f.codes, f.cache, f.log)
	txs.now = fixedClock
	regs := NewCashRegisterUseCase(f.store.Registers(), f.store.Ledger(), f.cache, f.log)
	regs.now = fixedClock
	return txs, regs
}

func balanceOf(t *testing.T, regs *CashRegisterUseCase, id string) string {
	t.Helper()
	list, err := regs.List(context.Background(), adminPrincipal())
	require.NoError(t, err)
	for _, r := range list {
		if r.ID == id {
			return r.Balance.String()
		}
	}
	t.Fatalf("caja %s no encontrada", id)
	return ""
}

func TestRegisterBalances_MutacionDuranteRecalculoNoRepone(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	f.cache.AfterVersion = func() {
		f.cache.AfterVersion = nil
		_, err := txs.Create(ctx, p, dto.CreateTransactionRequest{
			Date: "2024-03-01", Description: "Venta", Amount: dec(500),
			Group: "OPERATING", Type: "INCOME", AccountType: "CASH", Status: "PAID",
		})
		require.NoError(t, err)
	}
	balanceOf(t, regs, defaultRegID)
	assert.Equal(t, 1, f.cache.DroppedSets)
	_, ok, err := f.cache.Get(ctx, testCompanyID)
	require.NoError(t, err)
	assert.False(t, ok, "un recálculo que cruzó una mutación no se guarda")

	assert.Equal(t, "500", balanceOf(t, regs, defaultRegID))
	_, ok, _ = f.cache.Get(ctx, testCompanyID)
	assert.True(t, ok)
}

func TestTransactionCreate_ValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	cash, err := txs.Create(ctx, accountantPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Venta mostrador", Amount: dec(1000),
		Group: "OPERATING", Type: "INCOME", AccountType: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", cash.Status)
	assert.Equal(t, defaultRegID, cash.CashRegisterID)

	ar, err := txs.Create(ctx, accountantPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-01", DueDate: "2024-03-31", Description: "Factura cliente", Amount: dec(500),
		Group: "OPERATING", Type: "INCOME", AccountType: "RECEIVABLE", CashRegisterID: secondRegID,
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", ar.Status)
	assert.Equal(t, secondRegID, ar.CashRegisterID)
	assert.Equal(t, "2024-03-31", ar.DueDate)
}

func TestTransactionCreate_Rechazos(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	_, err := txs.Create(ctx, accountantPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-10", DueDate: "2024-03-10", Description: "Proveedor", Amount: dec(100),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "PAYABLE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = txs.Create(ctx, accountantPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-10", Description: "Sin monto", Amount: dec(0),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = txs.Create(ctx, accountantPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-10", Description: "Caja ajena", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH", CashRegisterID: "00000000-0000-0000-0000-000000000099",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = txs.Create(ctx, viewerPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-10", Description: "Visor", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = txs.CreateTransfer(ctx, accountantPrincipal(), dto.CreateTransferRequest{
		Date: "2024-03-10", Amount: dec(10), OriginCashRegisterID: defaultRegID, DestinationCashRegisterID: defaultRegID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterBalances_SiguenAlLibro(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	_, err := txs.Create(ctx, p, dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Venta", Amount: dec(1000),
		Group: "OPERATING", Type: "INCOME", AccountType: "CASH", Status: "PAID",
	})
	require.NoError(t, err)
	assert.Equal(t, "1000", balanceOf(t, regs, defaultRegID))

	_, err = txs.Create(ctx, p, dto.CreateTransactionRequest{
		Date: "2024-03-02", DueDate: "2024-04-02", Description: "Renta", Amount: dec(300),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "PAYABLE", Status: "PENDING",
	})
	require.NoError(t, err)
	assert.Equal(t, "1000", balanceOf(t, regs, defaultRegID))

	hitsBefore := f.cache.Hits
	assert.Equal(t, "1000", balanceOf(t, regs, defaultRegID))
	assert.Equal(t, hitsBefore+1, f.cache.Hits)

	_, err = txs.CreateTransfer(ctx, p, dto.CreateTransferRequest{
		Date: "2024-03-03", Description: "Fondo caja chica", Amount: dec(200),
		OriginCashRegisterID: defaultRegID, DestinationCashRegisterID: secondRegID,
	})
	require.NoError(t, err)
	assert.Equal(t, "800", balanceOf(t, regs, defaultRegID))
	assert.Equal(t, "200", balanceOf(t, regs, secondRegID))

	list, err := txs.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "TRANSFER", list[0].Type)
	assert.Equal(t, "FINANCING", list[0].Group)
}

func TestMarkPaid_PendienteAPagada(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	ar, err := txs.Create(ctx, p, dto.CreateTransactionRequest{
		Date: "2024-03-01", DueDate: "2024-03-20", Description: "Cliente", Amount: dec(250),
		Group: "OPERATING", Type: "INCOME", AccountType: "RECEIVABLE",
	})
	require.NoError(t, err)
	assert.Equal(t, "0", balanceOf(t, regs, defaultRegID))

	paid, err := txs.MarkPaid(ctx, p, ar.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)
	assert.Equal(t, "250", balanceOf(t, regs, defaultRegID))

	_, err = txs.MarkPaid(ctx, p, ar.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = txs.MarkPaid(ctx, p, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_AdminNoRequiereCodigo(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	m, err := txs.Create(ctx, adminPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Error de captura", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH",
	})
	require.NoError(t, err)

	require.NoError(t, txs.Delete(ctx, adminPrincipal(), m.ID, ""))
	assert.ErrorIs(t, txs.Delete(ctx, adminPrincipal(), m.ID, ""), domain.ErrNotFound)
}

func TestDelete_NoAdminRequiereCodigoDeUnUso(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	first, err := txs.Create(ctx, p, dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Duplicado", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH",
	})
	require.NoError(t, err)
	tr, err := txs.CreateTransfer(ctx, p, dto.CreateTransferRequest{
		Date: "2024-03-02", Amount: dec(5), OriginCashRegisterID: defaultRegID, DestinationCashRegisterID: secondRegID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, txs.Delete(ctx, p, first.ID, ""), domain.ErrAdminCodeRequired)
	assert.ErrorIs(t, txs.Delete(ctx, p, first.ID, "FFFF"), domain.ErrInvalidCode)

	code, err := f.codes.IssueAdminCode(ctx, adminPrincipal())
	require.NoError(t, err)

	require.NoError(t, txs.Delete(ctx, p, first.ID, code.Code))
	assert.ErrorIs(t, txs.Delete(ctx, p, tr.ID, code.Code), domain.ErrInvalidCode)

	code, err = f.codes.IssueAdminCode(ctx, adminPrincipal())
	require.NoError(t, err)
	require.NoError(t, txs.Delete(ctx, p, tr.ID, code.Code))

	list, err := txs.List(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "0", balanceOf(t, regs, secondRegID))
}

func TestDelete_FalloConservaCodigo(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	code, err := f.codes.IssueAdminCode(ctx, adminPrincipal())
	require.NoError(t, err)

	assert.ErrorIs(t, txs.Delete(ctx, accountantPrincipal(), "missing", code.Code), domain.ErrNotFound)
	require.NoError(t, f.codes.VerifyAdminCode(ctx, testCompanyID, code.Code))
}

func TestDelete_SinLlaveDeBorradoNiegaAunConCodigo(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	m, err := txs.Create(ctx, adminPrincipal(), dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Compra", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH",
	})
	require.NoError(t, err)
	code, err := f.codes.IssueAdminCode(ctx, adminPrincipal())
	require.NoError(t, err)

	capturista := &permission.Principal{UserID: "u-cap", CompanyID: testCompanyID, Name: "Capturista",
		Role: permission.Resolve("Capturista", &entity.AppRole{Name: "Capturista", CompanyID: testCompanyID, Permissions: []string{
			permission.FinancesView, permission.TransactionsView, permission.TransactionsCreate, permission.TransactionsEdit,
		}})}
	for _, p := range []*permission.Principal{viewerPrincipal(), capturista} {
		assert.ErrorIs(t, txs.Delete(ctx, p, m.ID, code.Code), domain.ErrForbidden, p.Role.Name())
	}

	// El código sigue vigente y el movimiento intacto.
	require.NoError(t, f.codes.VerifyAdminCode(ctx, testCompanyID, code.Code))
	list, err := txs.List(ctx, adminPrincipal())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
}

func TestTransactionList_RolSinVistaDeFinanzasNiega(t *testing.T) {
	f := newFixture(t)
	txs, _ := newLedgerUseCases(f)
	ctx := context.Background()

	role := &entity.AppRole{Name: "Cajero", CompanyID: testCompanyID, Permissions: []string{permission.TransactionsView}}
	p := &permission.Principal{UserID: "u-caj", CompanyID: testCompanyID, Name: "Cajero", Role: permission.Resolve("Cajero", role)}
	_, err := txs.List(ctx, p)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), permission.FinancesView)

	role.Permissions = append(role.Permissions, permission.FinancesView)
	p.Role = permission.Resolve("Cajero", role)
	_, err = txs.List(ctx, p)
	assert.NoError(t, err)
}

func TestCashRegister_ReglasDeBorrado(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	assert.ErrorIs(t, regs.Delete(ctx, p, defaultRegID), domain.ErrConflict)

	_, err := txs.Create(ctx, p, dto.CreateTransactionRequest{
		Date: "2024-03-01", Description: "Gasto", Amount: dec(10),
		Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH", CashRegisterID: secondRegID,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, regs.Delete(ctx, p, secondRegID), domain.ErrInUse)

	created, err := regs.Create(ctx, p, dto.CashRegisterRequest{Name: "Caja Nueva"})
	require.NoError(t, err)
	require.NoError(t, regs.Delete(ctx, p, created.ID))
	assert.ErrorIs(t, regs.Delete(ctx, viewerPrincipal(), secondRegID), domain.ErrForbidden)
}

func TestCashRegister_LibroDeCaja(t *testing.T) {
	f := newFixture(t)
	txs, regs := newLedgerUseCases(f)
	ctx := context.Background()
	p := accountantPrincipal()

	for _, in := range []dto.CreateTransactionRequest{
		{Date: "2024-02-20", Description: "Saldo previo", Amount: dec(100), Group: "OPERATING", Type: "INCOME", AccountType: "CASH"},
		{Date: "2024-03-05", Description: "Venta", Amount: dec(50), Group: "OPERATING", Type: "INCOME", AccountType: "CASH"},
		{Date: "2024-04-01", Description: "Posterior", Amount: dec(70), Group: "OPERATING", Type: "EXPENSE", AccountType: "CASH"},
	} {
		_, err := txs.Create(ctx, p, in)
		require.NoError(t, err)
	}
	_, err := txs.CreateTransfer(ctx, p, dto.CreateTransferRequest{
		Date: "2024-03-10", Amount: dec(30), OriginCashRegisterID: defaultRegID, DestinationCashRegisterID: secondRegID,
	})
	require.NoError(t, err)

	book, err := regs.Ledger(ctx, p, defaultRegID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "100", book.Opening.String())
	require.Len(t, book.Entries, 2)
	assert.Equal(t, "150", book.Entries[0].Balance.String())
	assert.Equal(t, "-30", book.Entries[1].Delta.String())
	assert.Equal(t, entity.DefaultCashRegisterName, book.Entries[1].OriginName)
	assert.Equal(t, "Caja Chica", book.Entries[1].DestinationName)
	assert.Equal(t, "120", book.Closing.String())
	assert.Equal(t, "50", book.CashRegister.Balance.String())

	_, err = regs.Ledger(ctx, p, defaultRegID, "03/01/2024", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
