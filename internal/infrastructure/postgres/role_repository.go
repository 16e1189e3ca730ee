package postgres

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo persistencia de app_roles. Los roles del sistema tienen company_id NULL y se sembraron en la migración.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleColumns = `id, company_id, name, description, permissions, is_system, created_at, updated_at`

// List devuelve los roles de la empresa más los del sistema.
func (r *RoleRepo) List(ctx context.Context, companyID string) ([]*entity.AppRole, error) {
	query := `SELECT ` + roleColumns + ` FROM app_roles
		WHERE company_id = $1 OR company_id IS NULL ORDER BY is_system DESC, name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.AppRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

// GetByID obtiene un rol visible para la empresa (propio o del sistema).
func (r *RoleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.AppRole, error) {
	query := `SELECT ` + roleColumns + ` FROM app_roles
		WHERE id = $2 AND (company_id = $1 OR company_id IS NULL)`
	role, err := scanRole(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// GetByName prefiere el rol de la empresa sobre el del sistema con el mismo nombre.
func (r *RoleRepo) GetByName(ctx context.Context, name, companyID string) (*entity.AppRole, error) {
	query := `SELECT ` + roleColumns + ` FROM app_roles
		WHERE name = $1 AND (company_id = $2 OR company_id IS NULL)
		ORDER BY company_id NULLS LAST LIMIT 1`
	role, err := scanRole(r.q.QueryRow(ctx, query, name, nullable(companyID)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return role, nil
}

// Upsert inserta o actualiza un rol de la empresa. Los roles del sistema nunca llegan aquí.
func (r *RoleRepo) Upsert(ctx context.Context, role *entity.AppRole) error {
	query := `
		INSERT INTO app_roles (` + roleColumns + `)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)
		ON CONFLICT (id) DO UPDATE
		   SET name = EXCLUDED.name, description = EXCLUDED.description,
		       permissions = EXCLUDED.permissions, updated_at = EXCLUDED.updated_at
		 WHERE app_roles.company_id = EXCLUDED.company_id AND NOT app_roles.is_system`
	perms := role.Permissions
	if perms == nil {
		perms = []string{}
	}
	cmd, err := r.q.Exec(ctx, query,
		role.ID, role.CompanyID, role.Name, role.Description, perms, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un rol llamado %q", domain.ErrDuplicate, role.Name)
		}
		return fmt.Errorf("upsert role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSystemRole
	}
	return nil
}

// Delete elimina un rol de la empresa si ningún usuario lo tiene asignado.
func (r *RoleRepo) Delete(ctx context.Context, companyID, id string) error {
	query := `
		WITH target AS (
			SELECT id, name FROM app_roles WHERE company_id = $1 AND id = $2
		), assigned AS (
			SELECT EXISTS (
				SELECT 1 FROM users u, target t WHERE u.company_id = $1 AND u.role = t.name
			) AS in_use
		), deleted AS (
			DELETE FROM app_roles
			 WHERE id IN (SELECT id FROM target) AND NOT (SELECT in_use FROM assigned)
			RETURNING id
		)
		SELECT EXISTS (SELECT 1 FROM target), (SELECT in_use FROM assigned)`
	var found, inUse bool
	if err := r.q.QueryRow(ctx, query, companyID, id).Scan(&found, &inUse); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if !found {
		return domain.ErrNotFound
	}
	if inUse {
		return fmt.Errorf("%w: el rol está asignado a usuarios", domain.ErrInUse)
	}
	return nil
}

func scanRole(row pgxScanner) (*entity.AppRole, error) {
	var (
		role      entity.AppRole
		companyID *string
	)
	err := row.Scan(
		&role.ID, &companyID, &role.Name, &role.Description, &role.Permissions, &role.IsSystem,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	role.CompanyID = deref(companyID)
	return &role, nil
}
