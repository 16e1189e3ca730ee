package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/application/apptest"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

const (
	testCompanyID  = "company-1"
	defaultRegID   = "reg-default"
	secondRegID    = "reg-second"
	testAdminID    = "user-admin"
	testAccountant = "user-accountant"
	testViewer     = "user-viewer"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *apptest.Store
	cache *apptest.BalanceCache
	codes *onboarding.CodeService
	log   zerolog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := apptest.NewStore()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{
		ID: testCompanyID, Name: "Acme", Address: "Calle 1", TaxID: "ACM010101AAA", TaxRate: decimal.NewFromInt(16),
	}))
	require.NoError(t, store.Registers().Create(ctx, &entity.CashRegister{
		ID: defaultRegID, CompanyID: testCompanyID, Name: entity.DefaultCashRegisterName, IsDefault: true,
	}))
	require.NoError(t, store.Registers().Create(ctx, &entity.CashRegister{
		ID: secondRegID, CompanyID: testCompanyID, Name: "Caja Chica",
	}))
	for _, u := range []entity.User{
		{ID: testAdminID, CompanyID: testCompanyID, Email: "admin@acme.mx", Name: "Admin", Role: entity.RoleAdmin, Status: entity.UserStatusActive},
		{ID: testAccountant, CompanyID: testCompanyID, Email: "conta@acme.mx", Name: "Conta", Role: entity.RoleAccountant, Status: entity.UserStatusActive},
		{ID: testViewer, CompanyID: testCompanyID, Email: "ver@acme.mx", Name: "Ver", Role: entity.RoleViewer, Status: entity.UserStatusActive},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}
	codes := onboarding.NewCodeService(store.Invitations(), store.AdminCodes(), store.Users(), store.Roles(),
		onboarding.WithClock(func() time.Time { return testNow }))
	return &fixture{store: store, cache: apptest.NewBalanceCache(), codes: codes, log: zerolog.Nop()}
}

func systemRole(name string) *entity.AppRole {
	for _, r := range apptest.SystemRoles() {
		if r.Name == name {
			r := r
			return &r
		}
	}
	return nil
}

func adminPrincipal() *permission.Principal {
	return &permission.Principal{UserID: testAdminID, CompanyID: testCompanyID, Name: "Admin", Language: entity.LanguageES,
		Role: permission.Resolve(entity.RoleAdmin, nil)}
}

func accountantPrincipal() *permission.Principal {
	return &permission.Principal{UserID: testAccountant, CompanyID: testCompanyID, Name: "Conta", Language: entity.LanguageEN,
		Role: permission.Resolve(entity.RoleAccountant, systemRole(entity.RoleAccountant))}
}

func viewerPrincipal() *permission.Principal {
	return &permission.Principal{UserID: testViewer, CompanyID: testCompanyID, Name: "Ver",
		Role: permission.Resolve(entity.RoleViewer, systemRole(entity.RoleViewer))}
}

func fixedClock() time.Time { return testNow }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
