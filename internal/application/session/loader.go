// Package session resuelve el contexto explícito de cada petición: el principal con su empresa y rol.
package session

import (
	"context"
	"fmt"

	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// Loader re-resuelve empresa y rol del usuario en cada sesión; el token solo aporta el userID.
type Loader struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewLoader construye el resolvedor de sesión.
func NewLoader(users repository.UserRepository, roles repository.RoleRepository) *Loader {
	return &Loader{users: users, roles: roles}
}

// Load devuelve el principal del usuario. Usuario inexistente = ErrUnauthorized; inactivo = ErrForbidden.
// Un rol sin fila queda como Unresolved (todo negado).
func (l *Loader) Load(ctx context.Context, userID string) (*permission.Principal, error) {
	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cargar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	p := &permission.Principal{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Name:      user.Name,
		Language:  user.Language,
	}
	if user.Role == entity.RoleAdmin {
		p.Role = permission.Resolve(user.Role, nil)
		return p, nil
	}
	stored, err := l.roles.GetByName(ctx, user.Role, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("cargar rol: %w", err)
	}
	p.Role = permission.Resolve(user.Role, stored)
	return p, nil
}

// Authorize devuelve ErrForbidden si el principal no pertenece a una empresa, no tiene la llave
// o no tiene la llave view del organismo que la contiene.
func Authorize(p *permission.Principal, key string) error {
	if p == nil || p.CompanyID == "" {
		return domain.ErrForbidden
	}
	if !permission.CanAccess(p, key) {
		if parent := permission.OrganismView(key); parent != "" && !permission.CheckPermission(p, parent) {
			return fmt.Errorf("%w: se requiere %s", domain.ErrForbidden, parent)
		}
		return fmt.Errorf("%w: se requiere %s", domain.ErrForbidden, key)
	}
	return nil
}

// RequireAdmin devuelve ErrForbidden si el principal no es ADMIN de una empresa.
func RequireAdmin(p *permission.Principal) error {
	if p == nil || p.CompanyID == "" || !permission.IsAdmin(p) {
		return fmt.Errorf("%w: solo un ADMIN puede realizar esta acción", domain.ErrForbidden)
	}
	return nil
}
