package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// UserUseCase usuarios de la empresa. Nunca se eliminan: se activan o desactivan.
type UserUseCase struct {
	users repository.UserRepository
	roles repository.RoleRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(users repository.UserRepository, roles repository.RoleRepository, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{users: users, roles: roles, log: log, now: time.Now}
}

// Me devuelve el usuario del principal; no requiere empresa.
func (uc *UserUseCase) Me(ctx context.Context, p *permission.Principal) (*dto.UserResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.UserFromEntity(user)
	return &out, nil
}

// List devuelve los usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.UserResponse, error) {
	if err := session.Authorize(p, permission.UsersView); err != nil {
		return nil, err
	}
	users, err := uc.users.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserFromEntity(u))
	}
	return out, nil
}

// UpdateRole asigna un rol existente (del sistema o de la empresa). Nadie cambia su propio rol.
func (uc *UserUseCase) UpdateRole(ctx context.Context, p *permission.Principal, userID string, in dto.UpdateUserRoleRequest) (*dto.UserResponse, error) {
	if err := session.Authorize(p, permission.UsersEdit); err != nil {
		return nil, err
	}
	if userID == p.UserID {
		return nil, fmt.Errorf("%w: no puedes cambiar tu propio rol", domain.ErrForbidden)
	}
	user, err := uc.companyUser(ctx, p.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	roleName := strings.TrimSpace(in.Role)
	if roleName != entity.RoleAdmin {
		role, err := uc.roles.GetByName(ctx, roleName, p.CompanyID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("%w: el rol %q no existe", domain.ErrInvalidInput, roleName)
		}
	} else if !permission.IsAdmin(p) {
		return nil, fmt.Errorf("%w: solo un ADMIN puede asignar ADMIN", domain.ErrForbidden)
	}
	user.Role = roleName
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Str("user_id", user.ID).Str("role", roleName).Msg("rol de usuario actualizado")
	out := dto.UserFromEntity(user)
	return &out, nil
}

// ToggleStatus alterna ACTIVE/INACTIVE. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, p *permission.Principal, userID string) (*dto.UserResponse, error) {
	if err := session.Authorize(p, permission.UsersEdit); err != nil {
		return nil, err
	}
	if userID == p.UserID {
		return nil, fmt.Errorf("%w: no puedes desactivar tu propio usuario", domain.ErrForbidden)
	}
	user, err := uc.companyUser(ctx, p.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive() {
		user.Status = entity.UserStatusInactive
	} else {
		user.Status = entity.UserStatusActive
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Str("user_id", user.ID).Str("status", user.Status).Msg("estado de usuario actualizado")
	out := dto.UserFromEntity(user)
	return &out, nil
}

// UpdateProfile modifica los campos propios del principal.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, p *permission.Principal, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Language != nil {
		lang := strings.ToUpper(strings.TrimSpace(*in.Language))
		if lang != entity.LanguageES && lang != entity.LanguageEN {
			return nil, fmt.Errorf("%w: idioma %q no soportado", domain.ErrInvalidInput, *in.Language)
		}
		user.Language = lang
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(user)
	return &out, nil
}

func (uc *UserUseCase) companyUser(ctx context.Context, companyID, userID string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
