package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/ledger"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// TransactionUseCase altas, cambios de estado y borrados del libro de la empresa.
// Toda mutación invalida el caché de saldos de la empresa.
type TransactionUseCase struct {
	ledger    repository.LedgerRepository
	registers repository.CashRegisterRepository
	tx        ports.TxRunner
	codes     *onboarding.CodeService
	cache     ports.BalanceCache
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	ledgerRepo repository.LedgerRepository,
	registers repository.CashRegisterRepository,
	tx ports.TxRunner,
	codes *onboarding.CodeService,
	cache ports.BalanceCache,
	log zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		ledger:    ledgerRepo,
		registers: registers,
		tx:        tx,
		codes:     codes,
		cache:     cache,
		log:       log,
		now:       time.Now,
	}
}

// List devuelve el flujo unificado (transacciones y transferencias), más reciente primero.
func (uc *TransactionUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.MovementResponse, error) {
	if err := session.Authorize(p, permission.TransactionsView); err != nil {
		return nil, err
	}
	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// Create registra un ingreso o egreso. Sin caja usa la caja por defecto; sin estado,
// las cuentas por cobrar/pagar nacen PENDING y las de caja PAID.
func (uc *TransactionUseCase) Create(ctx context.Context, p *permission.Principal, in dto.CreateTransactionRequest) (*dto.MovementResponse, error) {
	if err := session.Authorize(p, permission.TransactionsCreate); err != nil {
		return nil, err
	}
	date, err := parseDay("date", in.Date)
	if err != nil {
		return nil, err
	}
	t := &entity.Transaction{
		ID:           uuid.New().String(),
		CompanyID:    p.CompanyID,
		Date:         date,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Group:        entity.ActivityGroup(in.Group),
		Type:         entity.TransactionType(in.Type),
		AccountType:  entity.AccountType(in.AccountType),
		Status:       entity.TransactionStatus(in.Status),
		ReceiptImage: in.ReceiptImage,
		CreatedAt:    uc.now(),
	}
	if in.DueDate != "" {
		due, err := parseDay("due_date", in.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}
	if t.Status == "" {
		t.Status = defaultStatus(t.AccountType)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	reg, err := uc.resolveRegister(ctx, p.CompanyID, in.CashRegisterID)
	if err != nil {
		return nil, err
	}
	t.CashRegisterID = reg.ID

	if err := uc.ledger.InsertTransaction(ctx, t); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.CompanyID)
	uc.log.Info().
		Str("company_id", p.CompanyID).
		Str("transaction_id", t.ID).
		Str("type", string(t.Type)).
		Str("amount", t.Amount.String()).
		Msg("transacción registrada")
	out := toMovementResponse(ledger.FromTransaction(t))
	return &out, nil
}

// CreateTransfer registra un traspaso entre dos cajas de la empresa.
func (uc *TransactionUseCase) CreateTransfer(ctx context.Context, p *permission.Principal, in dto.CreateTransferRequest) (*dto.MovementResponse, error) {
	if err := session.Authorize(p, permission.TransactionsCreate); err != nil {
		return nil, err
	}
	date, err := parseDay("date", in.Date)
	if err != nil {
		return nil, err
	}
	tr := &entity.Transfer{
		ID:                        uuid.New().String(),
		CompanyID:                 p.CompanyID,
		Date:                      date,
		Description:               strings.TrimSpace(in.Description),
		Amount:                    in.Amount,
		OriginCashRegisterID:      in.OriginCashRegisterID,
		DestinationCashRegisterID: in.DestinationCashRegisterID,
		CreatedAt:                 uc.now(),
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	for _, id := range []string{tr.OriginCashRegisterID, tr.DestinationCashRegisterID} {
		if _, err := uc.resolveRegister(ctx, p.CompanyID, id); err != nil {
			return nil, err
		}
	}
	if err := uc.ledger.InsertTransfer(ctx, tr); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.CompanyID)
	uc.log.Info().
		Str("company_id", p.CompanyID).
		Str("transfer_id", tr.ID).
		Str("amount", tr.Amount.String()).
		Msg("transferencia registrada")
	out := toMovementResponse(ledger.FromTransfer(tr))
	return &out, nil
}

// MarkPaid pasa una transacción de PENDING a PAID; es la única transición de estado.
func (uc *TransactionUseCase) MarkPaid(ctx context.Context, p *permission.Principal, id string) (*dto.MovementResponse, error) {
	if err := session.Authorize(p, permission.TransactionsEdit); err != nil {
		return nil, err
	}
	t, err := uc.ledger.GetTransaction(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la transacción ya está %s", domain.ErrConflict, t.Status)
	}
	if err := uc.ledger.UpdateTransactionStatus(ctx, p.CompanyID, id, entity.StatusPaid); err != nil {
		return nil, err
	}
	t.Status = entity.StatusPaid
	uc.invalidate(ctx, p.CompanyID)
	out := toMovementResponse(ledger.FromTransaction(t))
	return &out, nil
}

// Delete elimina una transacción o transferencia buscada en el flujo. Requiere transactions.delete;
// un ADMIN borra directo y cualquier otro principal además presenta un código de administrador
// vigente, que se consume en la misma transacción del borrado.
func (uc *TransactionUseCase) Delete(ctx context.Context, p *permission.Principal, id, adminCode string) error {
	if err := session.Authorize(p, permission.TransactionsDelete); err != nil {
		return err
	}
	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return err
	}
	target, ok := ledger.Find(movements, id)
	if !ok {
		return domain.ErrNotFound
	}

	admin := permission.IsAdmin(p)
	if !admin {
		if err := uc.codes.VerifyAdminCode(ctx, p.CompanyID, adminCode); err != nil {
			return err
		}
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepositories) error {
		if !admin {
			if err := uc.codes.ConsumeAdminCode(ctx, repos.AdminCodes, p.CompanyID, adminCode); err != nil {
				return err
			}
		}
		if target.IsTransfer() {
			return repos.Ledger.DeleteTransfer(ctx, p.CompanyID, id)
		}
		return repos.Ledger.DeleteTransaction(ctx, p.CompanyID, id)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, p.CompanyID)
	uc.log.Info().
		Str("company_id", p.CompanyID).
		Str("user_id", p.UserID).
		Str("movement_id", id).
		Bool("transfer", target.IsTransfer()).
		Bool("admin_code", !admin).
		Msg("movimiento eliminado")
	return nil
}

func (uc *TransactionUseCase) resolveRegister(ctx context.Context, companyID, id string) (*entity.CashRegister, error) {
	if id == "" {
		reg, err := uc.registers.GetDefault(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if reg == nil {
			return nil, fmt.Errorf("%w: la empresa no tiene caja por defecto", domain.ErrNotFound)
		}
		return reg, nil
	}
	reg, err := uc.registers.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: la caja %s no existe", domain.ErrInvalidInput, id)
	}
	return reg, nil
}

func (uc *TransactionUseCase) invalidate(ctx context.Context, companyID string) {
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el caché de saldos")
	}
}

func defaultStatus(a entity.AccountType) entity.TransactionStatus {
	if a.IsAccrual() {
		return entity.StatusPending
	}
	return entity.StatusPaid
}
