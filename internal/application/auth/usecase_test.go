package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/apptest"
	"github.com/mdjvazquez/finmks-v/internal/application/auth"
	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	pkgjwt "github.com/mdjvazquez/finmks-v/pkg/jwt"
)

func newTokens(t *testing.T) *pkgjwt.Manager {
	t.Helper()
	m, err := pkgjwt.NewManager("test-secret", "finmks-test", time.Hour)
	require.NoError(t, err)
	return m
}

func setup(t *testing.T) (*auth.AuthUseCase, *onboarding.CodeService, *apptest.Store, *pkgjwt.Manager) {
	t.Helper()
	store := apptest.NewStore()
	codes := onboarding.NewCodeService(store.Invitations(), store.AdminCodes(), store.Users(), store.Roles())
	tokens := newTokens(t)
	uc := auth.NewAuthUseCase(store.Users(), store.TxRunner(), codes, tokens, zerolog.Nop())
	return uc, codes, store, tokens
}

func TestRegisterCompany_CreaEmpresa(t *testing.T) {
	uc, _, store, tokens := setup(t)
	ctx := context.Background()

	out, err := uc.RegisterCompany(ctx, dto.RegisterCompanyRequest{
		CompanyName: "Acme", Name: "Laura Gómez Ruiz", Email: "Laura@Acme.mx", Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Equal(t, "laura@acme.mx", out.User.Email)
	assert.Equal(t, "16", out.Company.TaxRate.String())
	assert.Equal(t, out.User.ID, out.Company.CreatedBy)

	claims, err := tokens.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, out.Company.ID, claims.CompanyID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	def, err := store.Registers().GetDefault(ctx, out.Company.ID)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, entity.DefaultCashRegisterName, def.Name)

	emps, err := store.Employees().ListByCompany(ctx, out.Company.ID)
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "Laura", emps[0].FirstName)
	assert.Equal(t, "Gómez Ruiz", emps[0].LastName)
	assert.Equal(t, "CEO / Admin", emps[0].Position)
	assert.Equal(t, entity.DepartmentManagement, emps[0].Department)
}

func TestRegisterCompany_CorreoDuplicado(t *testing.T) {
	uc, _, _, _ := setup(t)
	ctx := context.Background()
	in := dto.RegisterCompanyRequest{CompanyName: "Acme", Name: "Laura", Email: "laura@acme.mx", Password: "secret123"}

	_, err := uc.RegisterCompany(ctx, in)
	require.NoError(t, err)
	_, err = uc.RegisterCompany(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignUp_ConInvitacionConsumeCodigo(t *testing.T) {
	uc, codes, store, _ := setup(t)
	ctx := context.Background()

	reg, err := uc.RegisterCompany(ctx, dto.RegisterCompanyRequest{CompanyName: "Acme", Name: "Laura", Email: "laura@acme.mx", Password: "secret123"})
	require.NoError(t, err)
	admin := &permission.Principal{UserID: reg.User.ID, CompanyID: reg.Company.ID, Role: permission.Resolve(entity.RoleAdmin, nil)}

	inv, err := codes.IssueInvitation(ctx, admin, dto.CreateInvitationRequest{Email: "pepe@acme.mx", Name: "Pepe", Role: entity.RoleAccountant})
	require.NoError(t, err)

	out, err := uc.SignUp(ctx, dto.SignUpRequest{Name: "Pepe", Email: "pepe@acme.mx", Password: "secret123", InvitationCode: inv.Code})
	require.NoError(t, err)
	assert.Equal(t, reg.Company.ID, out.User.CompanyID)
	assert.Equal(t, entity.RoleAccountant, out.User.Role)

	emps, err := store.Employees().ListByCompany(ctx, reg.Company.ID)
	require.NoError(t, err)
	require.Len(t, emps, 2)

	_, err = codes.VerifyInvitation(ctx, inv.Code)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Name: "Otro", Email: "otro@acme.mx", Password: "secret123", InvitationCode: inv.Code})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	u, err := store.Users().GetByEmail(ctx, "otro@acme.mx")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSignUp_InvitacionDeOtroEmailNoSeConsume(t *testing.T) {
	uc, codes, store, _ := setup(t)
	ctx := context.Background()

	reg, err := uc.RegisterCompany(ctx, dto.RegisterCompanyRequest{CompanyName: "Acme", Name: "Laura", Email: "laura@acme.mx", Password: "secret123"})
	require.NoError(t, err)
	admin := &permission.Principal{UserID: reg.User.ID, CompanyID: reg.Company.ID, Role: permission.Resolve(entity.RoleAdmin, nil)}
	inv, err := codes.IssueInvitation(ctx, admin, dto.CreateInvitationRequest{Email: "pepe@acme.mx", Name: "Pepe", Role: entity.RoleAccountant})
	require.NoError(t, err)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Name: "Intruso", Email: "intruso@otra.mx", Password: "secret123", InvitationCode: inv.Code})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.NotContains(t, err.Error(), "pepe@acme.mx")
	u, err := store.Users().GetByEmail(ctx, "intruso@otra.mx")
	require.NoError(t, err)
	assert.Nil(t, u)

	// El código sigue vigente para el invitado; el email se compara normalizado.
	_, err = codes.VerifyInvitation(ctx, inv.Code)
	require.NoError(t, err)
	out, err := uc.SignUp(ctx, dto.SignUpRequest{Name: "Pepe", Email: "  Pepe@Acme.MX ", Password: "secret123", InvitationCode: inv.Code})
	require.NoError(t, err)
	assert.Equal(t, reg.Company.ID, out.User.CompanyID)
}

func TestSignUp_SinCodigo(t *testing.T) {
	uc, _, _, _ := setup(t)

	out, err := uc.SignUp(context.Background(), dto.SignUpRequest{Name: "Solo", Email: "solo@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Empty(t, out.User.CompanyID)
	assert.Equal(t, entity.RoleViewer, out.User.Role)
}

func TestLogin_CredencialesYEstado(t *testing.T) {
	uc, _, store, _ := setup(t)
	ctx := context.Background()

	reg, err := uc.RegisterCompany(ctx, dto.RegisterCompanyRequest{CompanyName: "Acme", Name: "Laura", Email: "laura@acme.mx", Password: "secret123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "LAURA@acme.mx", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "laura@acme.mx", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.mx", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := store.Users().GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	u.Status = entity.UserStatusInactive
	u.UpdatedAt = time.Now()
	require.NoError(t, store.Users().Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "laura@acme.mx", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
