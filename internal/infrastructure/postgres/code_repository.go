package postgres

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var (
	_ repository.InvitationRepository = (*InvitationRepo)(nil)
	_ repository.AdminCodeRepository  = (*AdminCodeRepo)(nil)
)

// InvitationRepo persistencia de códigos de invitación (clave primaria = código).
type InvitationRepo struct {
	q Querier
}

// NewInvitationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvitationRepository(q Querier) *InvitationRepo {
	return &InvitationRepo{q: q}
}

// Insert persiste el código; un código repetido devuelve ErrDuplicate para que el emisor reintente.
func (r *InvitationRepo) Insert(ctx context.Context, c *entity.InvitationCode) error {
	query := `
		INSERT INTO invitation_codes (code, company_id, email, name, role, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.Code, c.CompanyID, c.Email, c.Name, c.Role, c.ExpiresAt, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invitation code: %w", err)
	}
	return nil
}

// Get obtiene el código, vencido o no.
func (r *InvitationRepo) Get(ctx context.Context, code string) (*entity.InvitationCode, error) {
	query := `
		SELECT code, company_id, email, name, role, expires_at, created_at
		FROM invitation_codes WHERE code = $1`
	var c entity.InvitationCode
	err := r.q.QueryRow(ctx, query, code).Scan(
		&c.Code, &c.CompanyID, &c.Email, &c.Name, &c.Role, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation code: %w", err)
	}
	return &c, nil
}

// Delete consume el código. false = ya no existía.
func (r *InvitationRepo) Delete(ctx context.Context, code string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invitation_codes WHERE code = $1`, code)
	if err != nil {
		return false, fmt.Errorf("delete invitation code: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AdminCodeRepo persistencia de códigos de administrador (únicos por empresa).
type AdminCodeRepo struct {
	q Querier
}

// NewAdminCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdminCodeRepository(q Querier) *AdminCodeRepo {
	return &AdminCodeRepo{q: q}
}

func (r *AdminCodeRepo) Insert(ctx context.Context, c *entity.AdminCode) error {
	query := `
		INSERT INTO admin_codes (company_id, code, created_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.CompanyID, c.Code, c.CreatedBy, c.ExpiresAt, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert admin code: %w", err)
	}
	return nil
}

func (r *AdminCodeRepo) Get(ctx context.Context, companyID, code string) (*entity.AdminCode, error) {
	query := `
		SELECT company_id, code, created_by, expires_at, created_at
		FROM admin_codes WHERE company_id = $1 AND code = $2`
	var c entity.AdminCode
	err := r.q.QueryRow(ctx, query, companyID, code).Scan(
		&c.CompanyID, &c.Code, &c.CreatedBy, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin code: %w", err)
	}
	return &c, nil
}

func (r *AdminCodeRepo) Delete(ctx context.Context, companyID, code string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM admin_codes WHERE company_id = $1 AND code = $2`, companyID, code)
	if err != nil {
		return false, fmt.Errorf("delete admin code: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
