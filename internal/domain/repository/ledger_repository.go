package repository

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// LedgerRepository puerto de persistencia de transacciones y transferencias, siempre acotado por empresa.
// Las búsquedas por ID devuelven (nil, nil) cuando no existe el registro.
type LedgerRepository interface {
	ListTransactions(ctx context.Context, companyID string) ([]*entity.Transaction, error)
	ListTransfers(ctx context.Context, companyID string) ([]*entity.Transfer, error)
	GetTransaction(ctx context.Context, companyID, id string) (*entity.Transaction, error)
	GetTransfer(ctx context.Context, companyID, id string) (*entity.Transfer, error)
	InsertTransaction(ctx context.Context, tx *entity.Transaction) error
	InsertTransfer(ctx context.Context, tr *entity.Transfer) error
	UpdateTransactionStatus(ctx context.Context, companyID, id string, status entity.TransactionStatus) error
	DeleteTransaction(ctx context.Context, companyID, id string) error
	DeleteTransfer(ctx context.Context, companyID, id string) error
}

// CashRegisterRepository puerto de persistencia de cajas.
type CashRegisterRepository interface {
	Create(ctx context.Context, register *entity.CashRegister) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CashRegister, error)
	GetDefault(ctx context.Context, companyID string) (*entity.CashRegister, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CashRegister, error)
	Update(ctx context.Context, register *entity.CashRegister) error
	// Delete devuelve domain.ErrInUse si la caja tiene movimientos.
	Delete(ctx context.Context, companyID, id string) error
}
