package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// RoleUseCase roles personalizados de la empresa. Los roles del sistema son de solo lectura.
type RoleUseCase struct {
	roles repository.RoleRepository
	users repository.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(roles repository.RoleRepository, users repository.UserRepository, log zerolog.Logger) *RoleUseCase {
	return &RoleUseCase{roles: roles, users: users, log: log, now: time.Now}
}

// Tree devuelve el árbol de módulos para la edición de roles.
func (uc *RoleUseCase) Tree(p *permission.Principal) ([]dto.PermissionModuleResponse, error) {
	if err := session.Authorize(p, permission.RolesView); err != nil {
		return nil, err
	}
	return toModuleResponses(permission.Tree), nil
}

// List devuelve primero los roles del sistema y luego los de la empresa, por nombre.
func (uc *RoleUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.RoleResponse, error) {
	if err := session.Authorize(p, permission.RolesView); err != nil {
		return nil, err
	}
	roles, err := uc.roles.List(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(roles, func(i, j int) bool {
		if roles[i].IsSystem != roles[j].IsSystem {
			return roles[i].IsSystem
		}
		return roles[i].Name < roles[j].Name
	})
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// Create da de alta un rol personalizado.
func (uc *RoleUseCase) Create(ctx context.Context, p *permission.Principal, in dto.RoleRequest) (*dto.RoleResponse, error) {
	if err := session.Authorize(p, permission.RolesCreate); err != nil {
		return nil, err
	}
	name, perms, err := validateRole(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.roles.GetByName(ctx, name, p.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe el rol %q", domain.ErrDuplicate, name)
	}
	now := uc.now()
	role := &entity.AppRole{
		ID:          uuid.New().String(),
		CompanyID:   p.CompanyID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.roles.Upsert(ctx, role); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Str("role", name).Msg("rol creado")
	out := toRoleResponse(role)
	return &out, nil
}

// Update reemplaza nombre, descripción y permisos. Renombrar solo se permite sin usuarios asignados.
func (uc *RoleUseCase) Update(ctx context.Context, p *permission.Principal, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	if err := session.Authorize(p, permission.RolesEdit); err != nil {
		return nil, err
	}
	role, err := uc.getEditable(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	name, perms, err := validateRole(in)
	if err != nil {
		return nil, err
	}
	if name != role.Name {
		if err := uc.ensureUnassigned(ctx, p.CompanyID, role.Name); err != nil {
			return nil, err
		}
		other, err := uc.roles.GetByName(ctx, name, p.CompanyID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: ya existe el rol %q", domain.ErrDuplicate, name)
		}
	}
	role.Name = name
	role.Description = strings.TrimSpace(in.Description)
	role.Permissions = perms
	role.UpdatedAt = uc.now()
	if err := uc.roles.Upsert(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// ToggleGroup alterna todas las llaves del módulo y sus descendientes. Sobre un rol del sistema no hace nada.
func (uc *RoleUseCase) ToggleGroup(ctx context.Context, p *permission.Principal, id string, in dto.ToggleGroupRequest) (*dto.RoleResponse, error) {
	if err := session.Authorize(p, permission.RolesEdit); err != nil {
		return nil, err
	}
	node, ok := permission.FindModule(in.Module)
	if !ok {
		return nil, fmt.Errorf("%w: módulo %q desconocido", domain.ErrInvalidInput, in.Module)
	}
	role, err := uc.roles.GetByID(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	if role.IsSystem {
		out := toRoleResponse(role)
		return &out, nil
	}
	role.Permissions = permission.ToggleGroup(node, permission.NewSet(role.Permissions...)).Sorted()
	role.UpdatedAt = uc.now()
	if err := uc.roles.Upsert(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// Delete elimina un rol personalizado sin usuarios asignados.
func (uc *RoleUseCase) Delete(ctx context.Context, p *permission.Principal, id string) error {
	if err := session.Authorize(p, permission.RolesDelete); err != nil {
		return err
	}
	role, err := uc.getEditable(ctx, p.CompanyID, id)
	if err != nil {
		return err
	}
	if err := uc.roles.Delete(ctx, p.CompanyID, role.ID); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Str("role", role.Name).Msg("rol eliminado")
	return nil
}

func (uc *RoleUseCase) getEditable(ctx context.Context, companyID, id string) (*entity.AppRole, error) {
	role, err := uc.roles.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	if role.IsSystem {
		return nil, domain.ErrSystemRole
	}
	return role, nil
}

func (uc *RoleUseCase) ensureUnassigned(ctx context.Context, companyID, roleName string) error {
	users, err := uc.users.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Role == roleName {
			return fmt.Errorf("%w: el rol %q tiene usuarios asignados", domain.ErrInUse, roleName)
		}
	}
	return nil
}

// validateRole normaliza el nombre y rechaza nombres del sistema y llaves desconocidas.
func validateRole(in dto.RoleRequest) (string, []string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	switch strings.ToUpper(name) {
	case entity.RoleAdmin, entity.RoleAccountant, entity.RoleViewer:
		return "", nil, fmt.Errorf("%w: %q es un rol del sistema", domain.ErrDuplicate, name)
	}
	perms := permission.NewSet()
	for _, k := range in.Permissions {
		k = strings.TrimSpace(k)
		if !permission.IsKnownKey(k) {
			return "", nil, fmt.Errorf("%w: permiso %q desconocido", domain.ErrInvalidInput, k)
		}
		perms.Add(k)
	}
	return name, perms.Sorted(), nil
}

func toRoleResponse(r *entity.AppRole) dto.RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		IsSystem:    r.IsSystem,
	}
}

func toModuleResponses(nodes []permission.Module) []dto.PermissionModuleResponse {
	out := make([]dto.PermissionModuleResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.PermissionModuleResponse{
			Module:   n.Key,
			Actions:  n.Actions,
			Children: toModuleResponses(n.Children),
		})
	}
	return out
}
