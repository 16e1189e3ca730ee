package postgres

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo implementación de CashRegisterRepository sobre PostgreSQL.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const cashRegisterColumns = `id, company_id, name, description, is_default, created_at`

// Create persiste una caja. Solo puede haber una caja por defecto por empresa (índice parcial).
func (r *CashRegisterRepo) Create(ctx context.Context, c *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (` + cashRegisterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Name, c.Description, c.IsDefault, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la empresa ya tiene caja por defecto", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

// GetByID obtiene una caja de la empresa.
func (r *CashRegisterRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, query, companyID, id)
}

// GetDefault obtiene la caja por defecto de la empresa.
func (r *CashRegisterRepo) GetDefault(ctx context.Context, companyID string) (*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers WHERE company_id = $1 AND is_default`
	return r.getOne(ctx, query, companyID)
}

func (r *CashRegisterRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CashRegister, error) {
	var c entity.CashRegister
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.IsDefault, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return &c, nil
}

// ListByCompany lista las cajas: primero la caja por defecto, luego por nombre.
func (r *CashRegisterRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers
		WHERE company_id = $1 ORDER BY is_default DESC, name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		var c entity.CashRegister
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza nombre y descripción.
func (r *CashRegisterRepo) Update(ctx context.Context, c *entity.CashRegister) error {
	query := `UPDATE cash_registers SET name = $3, description = $4 WHERE company_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query, c.CompanyID, c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la caja; las llaves foráneas de transactions/transfers la protegen si tiene movimientos.
func (r *CashRegisterRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM cash_registers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: no se puede eliminar la caja: tiene movimientos registrados", domain.ErrInUse)
		}
		return fmt.Errorf("delete cash register: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
