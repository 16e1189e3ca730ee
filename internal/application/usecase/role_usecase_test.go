package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

func newRoles(f *fixture) *RoleUseCase {
	uc := NewRoleUseCase(f.store.Roles(), f.store.Users(), f.log)
	uc.now = fixedClock
	return uc
}

func TestRoles_SistemaPrimero(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)
	ctx := context.Background()

	_, err := uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Auditor", Permissions: []string{permission.ReportsView}})
	require.NoError(t, err)

	list, err := uc.List(ctx, adminPrincipal())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []string{"ACCOUNTANT", "ADMIN", "VIEWER", "Auditor"},
		[]string{list[0].Name, list[1].Name, list[2].Name, list[3].Name})
	assert.True(t, list[0].IsSystem)
	assert.False(t, list[3].IsSystem)
}

func TestRoles_ValidacionAlCrear(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)
	ctx := context.Background()

	_, err := uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Raro", Permissions: []string{"inventory.view"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "admin"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Cajero", Permissions: []string{permission.TransactionsCreate, permission.TransactionsCreate}})
	require.NoError(t, err)
	_, err = uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Cajero"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, accountantPrincipal(), dto.RoleRequest{Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRoles_SistemaInmutables(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)
	ctx := context.Background()
	viewer := systemRole(entity.RoleViewer)

	_, err := uc.Update(ctx, adminPrincipal(), viewer.ID, dto.RoleRequest{Name: "VIEWER2"})
	assert.ErrorIs(t, err, domain.ErrSystemRole)
	assert.ErrorIs(t, uc.Delete(ctx, adminPrincipal(), viewer.ID), domain.ErrSystemRole)

	out, err := uc.ToggleGroup(ctx, adminPrincipal(), viewer.ID, dto.ToggleGroupRequest{Module: "hr_organism"})
	require.NoError(t, err)
	assert.Equal(t, viewer.Permissions, out.Permissions)
}

func TestRoles_ToggleGroupAgregaYQuita(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)
	ctx := context.Background()

	role, err := uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "RRHH", Permissions: []string{permission.EmployeesView}})
	require.NoError(t, err)

	on, err := uc.ToggleGroup(ctx, adminPrincipal(), role.ID, dto.ToggleGroupRequest{Module: "hr_organism"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"hr_organism.view", "employees.view", "employees.create", "employees.edit", "employees.delete",
	}, on.Permissions)

	off, err := uc.ToggleGroup(ctx, adminPrincipal(), role.ID, dto.ToggleGroupRequest{Module: "hr_organism"})
	require.NoError(t, err)
	assert.Empty(t, off.Permissions)

	_, err = uc.ToggleGroup(ctx, adminPrincipal(), role.ID, dto.ToggleGroupRequest{Module: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoles_EnUsoNoSeBorraNiRenombra(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)
	ctx := context.Background()

	role, err := uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Cajero"})
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Create(ctx, &entity.User{
		CompanyID: testCompanyID, Email: "cajero@acme.mx", Role: "Cajero", Status: entity.UserStatusActive,
	}))

	assert.ErrorIs(t, uc.Delete(ctx, adminPrincipal(), role.ID), domain.ErrInUse)
	_, err = uc.Update(ctx, adminPrincipal(), role.ID, dto.RoleRequest{Name: "Cajera"})
	assert.ErrorIs(t, err, domain.ErrInUse)

	updated, err := uc.Update(ctx, adminPrincipal(), role.ID, dto.RoleRequest{Name: "Cajero", Description: "Caja", Permissions: []string{permission.TransactionsView}})
	require.NoError(t, err)
	assert.Equal(t, []string{permission.TransactionsView}, updated.Permissions)

	unused, err := uc.Create(ctx, adminPrincipal(), dto.RoleRequest{Name: "Temporal"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, adminPrincipal(), unused.ID))
}

func TestRoles_Arbol(t *testing.T) {
	f := newFixture(t)
	uc := newRoles(f)

	tree, err := uc.Tree(adminPrincipal())
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "finances_organism", tree[0].Module)
	assert.Len(t, tree[0].Children, 5)

	_, err = uc.Tree(viewerPrincipal())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
