package repository

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// RoleRepository puerto de persistencia de roles (de la empresa y del sistema).
type RoleRepository interface {
	// List devuelve los roles de la empresa más los roles del sistema.
	List(ctx context.Context, companyID string) ([]*entity.AppRole, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.AppRole, error)
	// GetByName busca el rol de la empresa con ese nombre o, si no existe, el rol del sistema.
	GetByName(ctx context.Context, name, companyID string) (*entity.AppRole, error)
	Upsert(ctx context.Context, role *entity.AppRole) error
	// Delete devuelve domain.ErrInUse si algún usuario tiene asignado el rol.
	Delete(ctx context.Context, companyID, id string) error
}
