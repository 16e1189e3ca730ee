package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/ledger"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// CashRegisterUseCase cajas de la empresa con saldos derivados del flujo de movimientos.
type CashRegisterUseCase struct {
	registers repository.CashRegisterRepository
	ledger    repository.LedgerRepository
	cache     ports.BalanceCache
	log       zerolog.Logger
	now       func() time.Time
}

// NewCashRegisterUseCase construye el caso de uso.
func NewCashRegisterUseCase(
	registers repository.CashRegisterRepository,
	ledgerRepo repository.LedgerRepository,
	cache ports.BalanceCache,
	log zerolog.Logger,
) *CashRegisterUseCase {
	return &CashRegisterUseCase{registers: registers, ledger: ledgerRepo, cache: cache, log: log, now: time.Now}
}

// List devuelve las cajas con su saldo actual.
func (uc *CashRegisterUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.CashRegisterResponse, error) {
	if err := session.Authorize(p, permission.CashRegistersView); err != nil {
		return nil, err
	}
	registers, err := uc.registers.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	balances, err := uc.balances(ctx, p.CompanyID, registers)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashRegisterResponse, 0, len(registers))
	for _, r := range registers {
		out = append(out, toCashRegisterResponse(r, balances[r.ID]))
	}
	return out, nil
}

// balances lee el caché; si no hay entrada recalcula desde el flujo completo.
// Un caché caído nunca impide responder.
func (uc *CashRegisterUseCase) balances(ctx context.Context, companyID string, registers []*entity.CashRegister) (map[string]decimal.Decimal, error) {
	cached, ok, err := uc.cache.Get(ctx, companyID)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("caché de saldos no disponible")
	}
	if ok && err == nil {
		return cached, nil
	}
	// La versión se lee antes del flujo: una mutación posterior la mueve y el Set se descarta.
	version, verr := uc.cache.Version(ctx, companyID)
	movements, err := loadMovements(ctx, uc.ledger, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(registers))
	for _, r := range registers {
		ids = append(ids, r.ID)
	}
	computed := ledger.Balances(ids, movements)
	if verr != nil {
		uc.log.Warn().Err(verr).Str("company_id", companyID).Msg("versión del caché de saldos no disponible")
		return computed, nil
	}
	stored, err := uc.cache.Set(ctx, companyID, version, computed)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo guardar el caché de saldos")
	case !stored:
		uc.log.Debug().Str("company_id", companyID).Int64("version", version).Msg("saldos descartados: el libro cambió durante el recálculo")
	}
	return computed, nil
}

// Create da de alta una caja (nunca por defecto: la caja por defecto nace con la empresa).
func (uc *CashRegisterUseCase) Create(ctx context.Context, p *permission.Principal, in dto.CashRegisterRequest) (*dto.CashRegisterResponse, error) {
	if err := session.Authorize(p, permission.CashRegistersCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	reg := &entity.CashRegister{
		ID:          uuid.New().String(),
		CompanyID:   p.CompanyID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   uc.now(),
	}
	if err := uc.registers.Create(ctx, reg); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.CompanyID)
	out := toCashRegisterResponse(reg, decimal.Zero)
	return &out, nil
}

// Update cambia nombre y descripción.
func (uc *CashRegisterUseCase) Update(ctx context.Context, p *permission.Principal, id string, in dto.CashRegisterRequest) (*dto.CashRegisterResponse, error) {
	if err := session.Authorize(p, permission.CashRegistersEdit); err != nil {
		return nil, err
	}
	reg, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	reg.Name = name
	reg.Description = strings.TrimSpace(in.Description)
	if err := uc.registers.Update(ctx, reg); err != nil {
		return nil, err
	}
	balances, err := uc.balances(ctx, p.CompanyID, []*entity.CashRegister{reg})
	if err != nil {
		return nil, err
	}
	out := toCashRegisterResponse(reg, balances[reg.ID])
	return &out, nil
}

// Delete elimina una caja sin movimientos. La caja por defecto no se elimina.
func (uc *CashRegisterUseCase) Delete(ctx context.Context, p *permission.Principal, id string) error {
	if err := session.Authorize(p, permission.CashRegistersDelete); err != nil {
		return err
	}
	reg, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return err
	}
	if reg.IsDefault {
		return fmt.Errorf("%w: la caja por defecto no se puede eliminar", domain.ErrConflict)
	}
	if err := uc.registers.Delete(ctx, p.CompanyID, id); err != nil {
		return err
	}
	uc.invalidate(ctx, p.CompanyID)
	uc.log.Info().Str("company_id", p.CompanyID).Str("cash_register_id", id).Msg("caja eliminada")
	return nil
}

// Ledger libro de una caja en [from, to] (YYYY-MM-DD, vacíos = sin límite) en orden ascendente.
func (uc *CashRegisterUseCase) Ledger(ctx context.Context, p *permission.Principal, id, from, to string) (*dto.RegisterLedgerResponse, error) {
	if err := session.Authorize(p, permission.CashRegistersView); err != nil {
		return nil, err
	}
	fromDay, err := parseOptionalDay("from", from)
	if err != nil {
		return nil, err
	}
	toDay, err := parseOptionalDay("to", to)
	if err != nil {
		return nil, err
	}
	reg, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	registers, err := uc.registers.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(registers))
	for _, r := range registers {
		names[r.ID] = r.Name
	}
	movements, err := loadMovements(ctx, uc.ledger, p.CompanyID)
	if err != nil {
		return nil, err
	}

	book := ledger.BuildRegisterLedger(reg.ID, movements, fromDay, toDay)
	entries := make([]dto.RegisterLedgerEntry, 0, len(book.Entries))
	for _, e := range book.Entries {
		row := dto.RegisterLedgerEntry{
			Movement: toMovementResponse(e.Movement),
			Delta:    e.Delta,
			Balance:  e.Balance,
		}
		if e.Movement.IsTransfer() {
			row.OriginName = names[e.Movement.CashRegisterID]
			row.DestinationName = names[e.Movement.DestinationCashRegisterID]
		}
		entries = append(entries, row)
	}
	return &dto.RegisterLedgerResponse{
		CashRegister: toCashRegisterResponse(reg, ledger.RegisterBalance(reg.ID, movements)),
		From:         formatDay(fromDay),
		To:           formatDay(toDay),
		Opening:      book.Opening,
		Entries:      entries,
		Closing:      book.Closing,
	}, nil
}

func (uc *CashRegisterUseCase) get(ctx context.Context, companyID, id string) (*entity.CashRegister, error) {
	reg, err := uc.registers.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (uc *CashRegisterUseCase) invalidate(ctx context.Context, companyID string) {
	if err := uc.cache.Invalidate(ctx, companyID); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar el caché de saldos")
	}
}

func toCashRegisterResponse(r *entity.CashRegister, balance decimal.Decimal) dto.CashRegisterResponse {
	return dto.CashRegisterResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsDefault:   r.IsDefault,
		Balance:     balance,
	}
}
