package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
)

func customRole(perms ...string) *entity.AppRole {
	return &entity.AppRole{ID: "r1", CompanyID: "c1", Name: "CAJERO", Permissions: perms}
}

func TestCheckPermission_SinPrincipalNiega(t *testing.T) {
	assert.False(t, permission.CheckPermission(nil, permission.TransactionsView))
	assert.False(t, permission.CheckPermission(&permission.Principal{UserID: "u1"}, permission.TransactionsView))
}

func TestCheckPermission_RolNoEncontradoNiega(t *testing.T) {
	p := &permission.Principal{UserID: "u1", CompanyID: "c1", Role: permission.Resolve("CAJERO", nil)}
	for _, node := range permission.Tree {
		for key := range permission.ModulePermissions(node) {
			assert.False(t, permission.CheckPermission(p, key), "la llave %s debe negarse", key)
		}
	}
	assert.False(t, permission.CheckPermission(p, permission.Wildcard))
}

func TestCheckPermission_AdminSiemprePermite(t *testing.T) {
	// ADMIN gana aunque la fila almacenada no tenga permisos.
	stored := &entity.AppRole{Name: entity.RoleAdmin, IsSystem: true}
	p := &permission.Principal{Role: permission.Resolve(entity.RoleAdmin, stored)}
	assert.True(t, permission.IsAdmin(p))
	assert.True(t, permission.CheckPermission(p, permission.TransactionsDelete))

	p = &permission.Principal{Role: permission.Resolve(entity.RoleAdmin, nil)}
	assert.True(t, permission.CheckPermission(p, permission.RolesDelete))
}

func TestCheckPermission_ComodinYLiteral(t *testing.T) {
	p := &permission.Principal{Role: permission.Resolve("SUPER", customRole(permission.Wildcard))}
	assert.True(t, permission.CheckPermission(p, permission.ReportsAnalyze))
	assert.False(t, permission.IsAdmin(p))

	p = &permission.Principal{Role: permission.Resolve("CAJERO", customRole(permission.TransactionsView))}
	assert.True(t, permission.CheckPermission(p, permission.TransactionsView))
	assert.False(t, permission.CheckPermission(p, permission.TransactionsCreate))
}

func TestResolve_Variantes(t *testing.T) {
	assert.IsType(t, permission.Admin{}, permission.Resolve(entity.RoleAdmin, nil))
	assert.IsType(t, permission.Unresolved{}, permission.Resolve("X", nil))
	assert.IsType(t, permission.SystemRole{}, permission.Resolve(entity.RoleViewer, &entity.AppRole{Name: entity.RoleViewer, IsSystem: true}))
	assert.IsType(t, permission.CustomRole{}, permission.Resolve("CAJERO", customRole()))
	assert.Equal(t, "CAJERO", permission.Resolve("CAJERO", customRole()).Name())
}

func TestModulePermissions_Recursivo(t *testing.T) {
	node, ok := permission.FindModule("hr_organism")
	require.True(t, ok)
	got := permission.ModulePermissions(node).Sorted()
	assert.Equal(t, []string{
		"employees.create", "employees.delete", "employees.edit", "employees.view", "hr_organism.view",
	}, got)
}

func TestToggleGroup_SeleccionaTodoYLuegoDeselecciona(t *testing.T) {
	node, ok := permission.FindModule("finances_organism")
	require.True(t, ok)

	original := permission.NewSet(permission.TransactionsView, permission.EmployeesView)
	selected := permission.ToggleGroup(node, original)
	assert.True(t, selected.ContainsAll(permission.ModulePermissions(node)))
	assert.True(t, selected.Has(permission.EmployeesView))
	// El conjunto original no se modifica.
	assert.Len(t, original, 2)

	cleared := permission.ToggleGroup(node, selected)
	assert.Equal(t, []string{permission.EmployeesView}, cleared.Sorted())
}

func TestToggleGroup_DosVecesVuelveAlOriginal(t *testing.T) {
	node, ok := permission.FindModule("employees")
	require.True(t, ok)

	// Conjunto que ya contiene todo el grupo: la primera pulsación lo quita, la segunda lo repone.
	original := permission.ModulePermissions(node)
	original.Add(permission.ReportsView)
	twice := permission.ToggleGroup(node, permission.ToggleGroup(node, original))
	assert.Equal(t, original.Sorted(), twice.Sorted())

	// Conjunto sin ninguna llave del grupo: seleccionar todo y deseleccionar es un no-op.
	none := permission.NewSet(permission.ReportsView)
	twice = permission.ToggleGroup(node, permission.ToggleGroup(node, none))
	assert.Equal(t, none.Sorted(), twice.Sorted())
}

func TestIsKnownKey_Llaves(t *testing.T) {
	assert.True(t, permission.IsKnownKey("*"))
	assert.True(t, permission.IsKnownKey(permission.ReportsAnalyze))
	assert.True(t, permission.IsKnownKey(permission.FinancesView))
	assert.False(t, permission.IsKnownKey("reports.delete"))
	assert.False(t, permission.IsKnownKey("inventario.view"))
	assert.False(t, permission.IsKnownKey("reports"))
}

func TestOrganismView_Mapeo(t *testing.T) {
	assert.Equal(t, permission.FinancesView, permission.OrganismView(permission.TransactionsDelete))
	assert.Equal(t, permission.FinancesView, permission.OrganismView(permission.NotificationsView))
	assert.Equal(t, permission.HRView, permission.OrganismView(permission.EmployeesEdit))
	assert.Equal(t, permission.SettingsView, permission.OrganismView(permission.RolesCreate))
	assert.Empty(t, permission.OrganismView(permission.FinancesView))
	assert.Empty(t, permission.OrganismView(permission.Wildcard))
	assert.Empty(t, permission.OrganismView("inventory.view"))
}

func TestCanAccess_ExigeVistaDelOrganismo(t *testing.T) {
	p := &permission.Principal{Role: permission.Resolve("CAJERO", customRole(permission.TransactionsView))}
	assert.True(t, permission.CheckPermission(p, permission.TransactionsView))
	assert.False(t, permission.CanAccess(p, permission.TransactionsView))

	p.Role = permission.Resolve("CAJERO", customRole(permission.TransactionsView, permission.FinancesView))
	assert.True(t, permission.CanAccess(p, permission.TransactionsView))
	assert.True(t, permission.CanAccess(p, permission.FinancesView))
	assert.False(t, permission.CanAccess(p, permission.EmployeesView))

	admin := &permission.Principal{Role: permission.Resolve(entity.RoleAdmin, nil)}
	assert.True(t, permission.CanAccess(admin, permission.UsersEdit))
	assert.False(t, permission.CanAccess(nil, permission.FinancesView))
}

func TestCanAccess_RolesDeSistema(t *testing.T) {
	// Las semillas incluyen la vista de cada organismo que usan.
	viewer := &permission.Principal{Role: permission.Resolve(entity.RoleViewer, &entity.AppRole{Name: entity.RoleViewer, IsSystem: true,
		Permissions: []string{permission.FinancesView, permission.DashboardView, permission.TransactionsView}})}
	assert.True(t, permission.CanAccess(viewer, permission.DashboardView))
	assert.True(t, permission.CanAccess(viewer, permission.TransactionsView))
	assert.False(t, permission.CanAccess(viewer, permission.TransactionsDelete))
}
