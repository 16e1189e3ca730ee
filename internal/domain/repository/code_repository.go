package repository

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// InvitationRepository puerto de persistencia de códigos de invitación.
type InvitationRepository interface {
	// Insert devuelve domain.ErrDuplicate si el código ya existe.
	Insert(ctx context.Context, code *entity.InvitationCode) error
	Get(ctx context.Context, code string) (*entity.InvitationCode, error)
	// Delete devuelve false si el código ya no existía (consumido por otra sesión).
	Delete(ctx context.Context, code string) (bool, error)
}

// AdminCodeRepository puerto de persistencia de códigos de administrador.
type AdminCodeRepository interface {
	// Insert devuelve domain.ErrDuplicate si el código ya existe en la empresa.
	Insert(ctx context.Context, code *entity.AdminCode) error
	Get(ctx context.Context, companyID, code string) (*entity.AdminCode, error)
	Delete(ctx context.Context, companyID, code string) (bool, error)
}
