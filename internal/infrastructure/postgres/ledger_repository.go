package postgres

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persistencia de transacciones y transferencias. Toda consulta va acotada por company_id.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const (
	transactionColumns = `id, company_id, cash_register_id, date, due_date, description, amount,
		activity_group, type, account_type, status, receipt_image, created_at`
	transferColumns = `id, company_id, date, description, amount,
		origin_cash_register_id, destination_cash_register_id, created_at`
)

// ListTransactions devuelve las transacciones de la empresa. El orden lo decide el agregador.
func (r *LedgerRepo) ListTransactions(ctx context.Context, companyID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 ORDER BY date, created_at`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListTransfers devuelve las transferencias de la empresa.
func (r *LedgerRepo) ListTransfers(ctx context.Context, companyID string) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE company_id = $1 ORDER BY date, created_at`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetTransaction obtiene una transacción de la empresa.
func (r *LedgerRepo) GetTransaction(ctx context.Context, companyID, id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND id = $2`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// GetTransfer obtiene una transferencia de la empresa.
func (r *LedgerRepo) GetTransfer(ctx context.Context, companyID, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE company_id = $1 AND id = $2`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// InsertTransaction persiste una transacción ya validada.
func (r *LedgerRepo) InsertTransaction(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.CashRegisterID, t.Date, t.DueDate, t.Description, t.Amount,
		string(t.Group), string(t.Type), string(t.AccountType), string(t.Status), t.ReceiptImage, t.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la caja no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertTransfer persiste una transferencia ya validada.
func (r *LedgerRepo) InsertTransfer(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Date, t.Description, t.Amount,
		t.OriginCashRegisterID, t.DestinationCashRegisterID, t.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la caja no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// UpdateTransactionStatus cambia el estado de cobro/pago.
func (r *LedgerRepo) UpdateTransactionStatus(ctx context.Context, companyID, id string, status entity.TransactionStatus) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE transactions SET status = $3 WHERE company_id = $1 AND id = $2`,
		companyID, id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTransaction elimina una transacción.
func (r *LedgerRepo) DeleteTransaction(ctx context.Context, companyID, id string) error {
	return r.delete(ctx, "transactions", companyID, id)
}

// DeleteTransfer elimina una transferencia.
func (r *LedgerRepo) DeleteTransfer(ctx context.Context, companyID, id string) error {
	return r.delete(ctx, "transfers", companyID, id)
}

// delete table es siempre una constante interna, nunca entrada del usuario.
func (r *LedgerRepo) delete(ctx context.Context, table, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+table+` WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgxScanner) (*entity.Transaction, error) {
	var (
		t                               entity.Transaction
		group, typ, accountType, status string
	)
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.CashRegisterID, &t.Date, &t.DueDate, &t.Description, &t.Amount,
		&group, &typ, &accountType, &status, &t.ReceiptImage, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Group = entity.ActivityGroup(group)
	t.Type = entity.TransactionType(typ)
	t.AccountType = entity.AccountType(accountType)
	t.Status = entity.TransactionStatus(status)
	return &t, nil
}

func scanTransfer(row pgxScanner) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Date, &t.Description, &t.Amount,
		&t.OriginCashRegisterID, &t.DestinationCashRegisterID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
