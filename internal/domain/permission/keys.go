package permission

// Llaves usadas por los casos de uso y el router.
const (
	FinancesView  = "finances_organism.view"
	HRView        = "hr_organism.view"
	SettingsView  = "settings_organism.view"
	DashboardView = "dashboard.view"

	TransactionsView   = "transactions.view"
	TransactionsCreate = "transactions.create"
	TransactionsEdit   = "transactions.edit"
	TransactionsDelete = "transactions.delete"

	CashRegistersView   = "cash_registers.view"
	CashRegistersCreate = "cash_registers.create"
	CashRegistersEdit   = "cash_registers.edit"
	CashRegistersDelete = "cash_registers.delete"

	ReportsView    = "reports.view"
	ReportsCreate  = "reports.create"
	ReportsAnalyze = "reports.analyze"

	NotificationsView = "notifications.view"

	EmployeesView   = "employees.view"
	EmployeesCreate = "employees.create"
	EmployeesEdit   = "employees.edit"
	EmployeesDelete = "employees.delete"

	CompanyView = "company.view"
	CompanyEdit = "company.edit"

	UsersView   = "users.view"
	UsersCreate = "users.create"
	UsersEdit   = "users.edit"

	RolesView   = "roles.view"
	RolesCreate = "roles.create"
	RolesEdit   = "roles.edit"
	RolesDelete = "roles.delete"
)
