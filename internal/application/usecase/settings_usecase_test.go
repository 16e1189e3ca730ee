package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestCompany_SoloAdminActualiza(t *testing.T) {
	f := newFixture(t)
	uc := NewCompanyUseCase(f.store.Companies(), f.log)
	ctx := context.Background()

	rate := decimal.NewFromInt(8)
	out, err := uc.Update(ctx, adminPrincipal(), dto.UpdateCompanyRequest{TaxRate: &rate, Address: strPtr(" Av. Reforma 10 ")})
	require.NoError(t, err)
	assert.Equal(t, "8", out.TaxRate.String())
	assert.Equal(t, "Av. Reforma 10", out.Address)
	assert.Equal(t, "Acme", out.Name)

	tooHigh := decimal.NewFromInt(101)
	_, err = uc.Update(ctx, adminPrincipal(), dto.UpdateCompanyRequest{TaxRate: &tooHigh})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, accountantPrincipal(), dto.UpdateCompanyRequest{Name: strPtr("Nope")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.Get(ctx, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, "8", got.TaxRate.String())
}

func TestUsers_RolYEstado(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.store.Users(), f.store.Roles(), f.log)
	uc.now = fixedClock
	ctx := context.Background()

	out, err := uc.UpdateRole(ctx, adminPrincipal(), testViewer, dto.UpdateUserRoleRequest{Role: entity.RoleAccountant})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAccountant, out.Role)

	_, err = uc.UpdateRole(ctx, adminPrincipal(), testViewer, dto.UpdateUserRoleRequest{Role: "Fantasma"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateRole(ctx, adminPrincipal(), testAdminID, dto.UpdateUserRoleRequest{Role: entity.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateRole(ctx, accountantPrincipal(), testViewer, dto.UpdateUserRoleRequest{Role: entity.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	off, err := uc.ToggleStatus(ctx, adminPrincipal(), testViewer)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, off.Status)
	on, err := uc.ToggleStatus(ctx, adminPrincipal(), testViewer)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, on.Status)

	_, err = uc.ToggleStatus(ctx, adminPrincipal(), "other-company-user")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	list, err := uc.List(ctx, adminPrincipal())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestUsers_ActualizaPerfil(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.store.Users(), f.store.Roles(), f.log)
	ctx := context.Background()

	out, err := uc.UpdateProfile(ctx, viewerPrincipal(), dto.UpdateProfileRequest{
		Name: strPtr("Vera Núñez"), Bio: strPtr("Analista"), Language: strPtr("en"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vera Núñez", out.Name)
	assert.Equal(t, entity.LanguageEN, out.Language)
	assert.Equal(t, entity.RoleViewer, out.Role)

	_, err = uc.UpdateProfile(ctx, viewerPrincipal(), dto.UpdateProfileRequest{Language: strPtr("FR")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	me, err := uc.Me(ctx, viewerPrincipal())
	require.NoError(t, err)
	assert.Equal(t, "Analista", me.Bio)
}

func TestEmployees_Crud(t *testing.T) {
	f := newFixture(t)
	uc := NewEmployeeUseCase(f.store.Employees(), f.log)
	uc.now = fixedClock
	ctx := context.Background()

	created, err := uc.Create(ctx, adminPrincipal(), dto.EmployeeRequest{
		FirstName: "Rosa", LastName: "Pérez", Position: "Cajera", Salary: decimal.NewFromInt(9000),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusActive, created.Status)
	assert.Equal(t, "2024-03-15", created.HireDate)

	updated, err := uc.Update(ctx, adminPrincipal(), created.ID, dto.EmployeeRequest{
		FirstName: "Rosa", LastName: "Pérez", Status: entity.EmployeeStatusOnLeave, HireDate: "2023-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusOnLeave, updated.Status)
	assert.Equal(t, "2023-01-02", updated.HireDate)

	_, err = uc.Create(ctx, adminPrincipal(), dto.EmployeeRequest{FirstName: "X", Salary: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, accountantPrincipal())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Create(ctx, accountantPrincipal(), dto.EmployeeRequest{FirstName: "Y"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, adminPrincipal(), created.ID))
	_, err = uc.Get(ctx, adminPrincipal(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
