package repository

// TxRepositories repositorios atados a una misma transacción de base de datos.
type TxRepositories struct {
	Companies   CompanyRepository
	Users       UserRepository
	Employees   EmployeeRepository
	Registers   CashRegisterRepository
	Ledger      LedgerRepository
	Invitations InvitationRepository
	AdminCodes  AdminCodeRepository
}
