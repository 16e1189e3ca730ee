// Package apptest repositorios en memoria para probar los casos de uso sin base de datos.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

type state struct {
	companies   map[string]entity.Company
	users       map[string]entity.User
	employees   map[string]entity.Employee
	registers   map[string]entity.CashRegister
	txs         map[string]entity.Transaction
	transfers   map[string]entity.Transfer
	roles       map[string]entity.AppRole
	reports     map[string]entity.FinancialReport
	invitations map[string]entity.InvitationCode
	adminCodes  map[string]entity.AdminCode
}

func newState() state {
	return state{
		companies:   map[string]entity.Company{},
		users:       map[string]entity.User{},
		employees:   map[string]entity.Employee{},
		registers:   map[string]entity.CashRegister{},
		txs:         map[string]entity.Transaction{},
		transfers:   map[string]entity.Transfer{},
		roles:       map[string]entity.AppRole{},
		reports:     map[string]entity.FinancialReport{},
		invitations: map[string]entity.InvitationCode{},
		adminCodes:  map[string]entity.AdminCode{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	return state{
		companies:   cloneMap(s.companies),
		users:       cloneMap(s.users),
		employees:   cloneMap(s.employees),
		registers:   cloneMap(s.registers),
		txs:         cloneMap(s.txs),
		transfers:   cloneMap(s.transfers),
		roles:       cloneMap(s.roles),
		reports:     cloneMap(s.reports),
		invitations: cloneMap(s.invitations),
		adminCodes:  cloneMap(s.adminCodes),
	}
}

// Store base en memoria. El TxRunner restaura el estado previo si la función falla.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un store vacío con los roles del sistema sembrados.
func NewStore() *Store {
	s := &Store{st: newState()}
	for _, r := range SystemRoles() {
		s.st.roles[r.ID] = r
	}
	return s
}

// SystemRoles roles del sistema iguales a los de la migración inicial.
func SystemRoles() []entity.AppRole {
	return []entity.AppRole{
		{ID: "role-admin", Name: entity.RoleAdmin, Permissions: []string{entity.WildcardPermission}, IsSystem: true},
		{ID: "role-accountant", Name: entity.RoleAccountant, IsSystem: true, Permissions: []string{
			"finances_organism.view", "dashboard.view",
			"transactions.view", "transactions.create", "transactions.edit", "transactions.delete",
			"cash_registers.view", "cash_registers.create", "cash_registers.edit", "cash_registers.delete",
			"reports.view", "reports.create", "reports.analyze",
			"notifications.view", "hr_organism.view", "employees.view",
		}},
		{ID: "role-viewer", Name: entity.RoleViewer, IsSystem: true, Permissions: []string{
			"finances_organism.view", "dashboard.view", "transactions.view",
			"cash_registers.view", "reports.view", "notifications.view",
		}},
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Repos devuelve el conjunto de repositorios sobre el store.
func (s *Store) Repos() repository.TxRepositories {
	return repository.TxRepositories{
		Companies:   s.Companies(),
		Users:       s.Users(),
		Employees:   s.Employees(),
		Registers:   s.Registers(),
		Ledger:      s.Ledger(),
		Invitations: s.Invitations(),
		AdminCodes:  s.AdminCodes(),
	}
}

func (s *Store) Companies() *CompanyRepo      { return &CompanyRepo{s} }
func (s *Store) Users() *UserRepo             { return &UserRepo{s} }
func (s *Store) Employees() *EmployeeRepo     { return &EmployeeRepo{s} }
func (s *Store) Registers() *RegisterRepo     { return &RegisterRepo{s} }
func (s *Store) Ledger() *LedgerRepo          { return &LedgerRepo{s} }
func (s *Store) Roles() *RoleRepo             { return &RoleRepo{s} }
func (s *Store) Reports() *ReportRepo         { return &ReportRepo{s} }
func (s *Store) Invitations() *InvitationRepo { return &InvitationRepo{s} }
func (s *Store) AdminCodes() *AdminCodeRepo   { return &AdminCodeRepo{s} }
func (s *Store) TxRunner() *TxRunner          { return &TxRunner{s} }

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// TxRunner ejecuta fn sobre el store y restaura el estado si devuelve error.
type TxRunner struct{ s *Store }

func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	r.s.mu.Lock()
	snapshot := r.s.st.clone()
	r.s.mu.Unlock()
	if err := fn(r.s.Repos()); err != nil {
		r.s.mu.Lock()
		r.s.st = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// ── Companies ─────────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	defer r.s.lock()()
	c.ID = newID(c.ID)
	r.s.st.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	defer r.s.lock()()
	c, ok := r.s.st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	defer r.s.lock()()
	if _, ok := r.s.st.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.companies[c.ID] = *c
	return nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = newID(u.ID)
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) && u.CompanyID == companyID {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	defer r.s.lock()()
	var out []*entity.User
	for _, u := range r.s.st.users {
		if u.CompanyID == companyID {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

// ── Employees ─────────────────────────────────────────────────────────────────

type EmployeeRepo struct{ s *Store }

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

func (r *EmployeeRepo) Create(_ context.Context, e *entity.Employee) error {
	defer r.s.lock()()
	e.ID = newID(e.ID)
	r.s.st.employees[e.ID] = *e
	return nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, companyID, id string) (*entity.Employee, error) {
	defer r.s.lock()()
	e, ok := r.s.st.employees[id]
	if !ok || e.CompanyID != companyID {
		return nil, nil
	}
	return &e, nil
}

func (r *EmployeeRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Employee, error) {
	defer r.s.lock()()
	var out []*entity.Employee
	for _, e := range r.s.st.employees {
		if e.CompanyID == companyID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName+out[i].FirstName < out[j].LastName+out[j].FirstName })
	return out, nil
}

func (r *EmployeeRepo) Update(_ context.Context, e *entity.Employee) error {
	defer r.s.lock()()
	if cur, ok := r.s.st.employees[e.ID]; !ok || cur.CompanyID != e.CompanyID {
		return domain.ErrNotFound
	}
	r.s.st.employees[e.ID] = *e
	return nil
}

func (r *EmployeeRepo) Delete(_ context.Context, companyID, id string) error {
	defer r.s.lock()()
	if cur, ok := r.s.st.employees[id]; !ok || cur.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.st.employees, id)
	return nil
}

// ── Cash registers ────────────────────────────────────────────────────────────

type RegisterRepo struct{ s *Store }

var _ repository.CashRegisterRepository = (*RegisterRepo)(nil)

func (r *RegisterRepo) Create(_ context.Context, c *entity.CashRegister) error {
	defer r.s.lock()()
	c.ID = newID(c.ID)
	r.s.st.registers[c.ID] = *c
	return nil
}

func (r *RegisterRepo) GetByID(_ context.Context, companyID, id string) (*entity.CashRegister, error) {
	defer r.s.lock()()
	c, ok := r.s.st.registers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r *RegisterRepo) GetDefault(_ context.Context, companyID string) (*entity.CashRegister, error) {
	defer r.s.lock()()
	for _, c := range r.s.st.registers {
		if c.CompanyID == companyID && c.IsDefault {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RegisterRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.CashRegister, error) {
	defer r.s.lock()()
	var out []*entity.CashRegister
	for _, c := range r.s.st.registers {
		if c.CompanyID == companyID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *RegisterRepo) Update(_ context.Context, c *entity.CashRegister) error {
	defer r.s.lock()()
	if cur, ok := r.s.st.registers[c.ID]; !ok || cur.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	r.s.st.registers[c.ID] = *c
	return nil
}

func (r *RegisterRepo) Delete(_ context.Context, companyID, id string) error {
	defer r.s.lock()()
	if cur, ok := r.s.st.registers[id]; !ok || cur.CompanyID != companyID {
		return domain.ErrNotFound
	}
	for _, t := range r.s.st.txs {
		if t.CashRegisterID == id {
			return domain.ErrInUse
		}
	}
	for _, t := range r.s.st.transfers {
		if t.OriginCashRegisterID == id || t.DestinationCashRegisterID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.registers, id)
	return nil
}

// ── Ledger ────────────────────────────────────────────────────────────────────

type LedgerRepo struct{ s *Store }

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

func (r *LedgerRepo) ListTransactions(_ context.Context, companyID string) ([]*entity.Transaction, error) {
	defer r.s.lock()()
	var out []*entity.Transaction
	for _, t := range r.s.st.txs {
		if t.CompanyID == companyID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LedgerRepo) ListTransfers(_ context.Context, companyID string) ([]*entity.Transfer, error) {
	defer r.s.lock()()
	var out []*entity.Transfer
	for _, t := range r.s.st.transfers {
		if t.CompanyID == companyID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LedgerRepo) GetTransaction(_ context.Context, companyID, id string) (*entity.Transaction, error) {
	defer r.s.lock()()
	t, ok := r.s.st.txs[id]
	if !ok || t.CompanyID != companyID {
		return nil, nil
	}
	return &t, nil
}

func (r *LedgerRepo) GetTransfer(_ context.Context, companyID, id string) (*entity.Transfer, error) {
	defer r.s.lock()()
	t, ok := r.s.st.transfers[id]
	if !ok || t.CompanyID != companyID {
		return nil, nil
	}
	return &t, nil
}

func (r *LedgerRepo) InsertTransaction(_ context.Context, t *entity.Transaction) error {
	defer r.s.lock()()
	t.ID = newID(t.ID)
	r.s.st.txs[t.ID] = *t
	return nil
}

func (r *LedgerRepo) InsertTransfer(_ context.Context, t *entity.Transfer) error {
	defer r.s.lock()()
	t.ID = newID(t.ID)
	r.s.st.transfers[t.ID] = *t
	return nil
}

func (r *LedgerRepo) UpdateTransactionStatus(_ context.Context, companyID, id string, status entity.TransactionStatus) error {
	defer r.s.lock()()
	t, ok := r.s.st.txs[id]
	if !ok || t.CompanyID != companyID {
		return domain.ErrNotFound
	}
	t.Status = status
	r.s.st.txs[id] = t
	return nil
}

func (r *LedgerRepo) DeleteTransaction(_ context.Context, companyID, id string) error {
	defer r.s.lock()()
	t, ok := r.s.st.txs[id]
	if !ok || t.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.st.txs, id)
	return nil
}

func (r *LedgerRepo) DeleteTransfer(_ context.Context, companyID, id string) error {
	defer r.s.lock()()
	t, ok := r.s.st.transfers[id]
	if !ok || t.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.st.transfers, id)
	return nil
}

// ── Roles ─────────────────────────────────────────────────────────────────────

type RoleRepo struct{ s *Store }

var _ repository.RoleRepository = (*RoleRepo)(nil)

func (r *RoleRepo) List(_ context.Context, companyID string) ([]*entity.AppRole, error) {
	defer r.s.lock()()
	var out []*entity.AppRole
	for _, role := range r.s.st.roles {
		if role.IsSystem || role.CompanyID == companyID {
			role := role
			out = append(out, &role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) GetByID(_ context.Context, companyID, id string) (*entity.AppRole, error) {
	defer r.s.lock()()
	role, ok := r.s.st.roles[id]
	if !ok || (!role.IsSystem && role.CompanyID != companyID) {
		return nil, nil
	}
	return &role, nil
}

func (r *RoleRepo) GetByName(_ context.Context, name, companyID string) (*entity.AppRole, error) {
	defer r.s.lock()()
	var system *entity.AppRole
	for _, role := range r.s.st.roles {
		if role.Name != name {
			continue
		}
		role := role
		if !role.IsSystem && role.CompanyID == companyID {
			return &role, nil
		}
		if role.IsSystem {
			system = &role
		}
	}
	return system, nil
}

func (r *RoleRepo) Upsert(_ context.Context, role *entity.AppRole) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.roles {
		if existing.ID != role.ID && existing.Name == role.Name && existing.CompanyID == role.CompanyID {
			return domain.ErrDuplicate
		}
	}
	role.ID = newID(role.ID)
	r.s.st.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, companyID, id string) error {
	defer r.s.lock()()
	role, ok := r.s.st.roles[id]
	if !ok || role.CompanyID != companyID {
		return domain.ErrNotFound
	}
	for _, u := range r.s.st.users {
		if u.CompanyID == companyID && u.Role == role.Name {
			return domain.ErrInUse
		}
	}
	delete(r.s.st.roles, id)
	return nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

type ReportRepo struct{ s *Store }

var _ repository.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Create(_ context.Context, rep *entity.FinancialReport) error {
	defer r.s.lock()()
	for _, existing := range r.s.st.reports {
		if existing.CompanyID == rep.CompanyID && existing.Folio == rep.Folio {
			return domain.ErrDuplicate
		}
	}
	rep.ID = newID(rep.ID)
	r.s.st.reports[rep.ID] = *rep
	return nil
}

func (r *ReportRepo) GetByID(_ context.Context, companyID, id string) (*entity.FinancialReport, error) {
	defer r.s.lock()()
	rep, ok := r.s.st.reports[id]
	if !ok || rep.CompanyID != companyID {
		return nil, nil
	}
	return &rep, nil
}

func (r *ReportRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.FinancialReport, error) {
	defer r.s.lock()()
	var out []*entity.FinancialReport
	for _, rep := range r.s.st.reports {
		if rep.CompanyID == companyID {
			rep := rep
			out = append(out, &rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateGenerated.After(out[j].DateGenerated) })
	return out, nil
}

func (r *ReportRepo) UpdateAnalysis(_ context.Context, companyID, id string, ratios []entity.FinancialRatio, aiAnalysis string) error {
	defer r.s.lock()()
	rep, ok := r.s.st.reports[id]
	if !ok || rep.CompanyID != companyID {
		return domain.ErrNotFound
	}
	rep.Ratios = ratios
	rep.AIAnalysis = aiAnalysis
	r.s.st.reports[id] = rep
	return nil
}

// ── Codes ─────────────────────────────────────────────────────────────────────

type InvitationRepo struct{ s *Store }

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

func (r *InvitationRepo) Insert(_ context.Context, c *entity.InvitationCode) error {
	defer r.s.lock()()
	if _, ok := r.s.st.invitations[c.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.invitations[c.Code] = *c
	return nil
}

func (r *InvitationRepo) Get(_ context.Context, code string) (*entity.InvitationCode, error) {
	defer r.s.lock()()
	c, ok := r.s.st.invitations[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *InvitationRepo) Delete(_ context.Context, code string) (bool, error) {
	defer r.s.lock()()
	if _, ok := r.s.st.invitations[code]; !ok {
		return false, nil
	}
	delete(r.s.st.invitations, code)
	return true, nil
}

type AdminCodeRepo struct{ s *Store }

var _ repository.AdminCodeRepository = (*AdminCodeRepo)(nil)

func adminKey(companyID, code string) string { return companyID + "/" + code }

func (r *AdminCodeRepo) Insert(_ context.Context, c *entity.AdminCode) error {
	defer r.s.lock()()
	k := adminKey(c.CompanyID, c.Code)
	if _, ok := r.s.st.adminCodes[k]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.adminCodes[k] = *c
	return nil
}

func (r *AdminCodeRepo) Get(_ context.Context, companyID, code string) (*entity.AdminCode, error) {
	defer r.s.lock()()
	c, ok := r.s.st.adminCodes[adminKey(companyID, code)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *AdminCodeRepo) Delete(_ context.Context, companyID, code string) (bool, error) {
	defer r.s.lock()()
	k := adminKey(companyID, code)
	if _, ok := r.s.st.adminCodes[k]; !ok {
		return false, nil
	}
	delete(r.s.st.adminCodes, k)
	return true, nil
}

// ── Caches ────────────────────────────────────────────────────────────────────

// BalanceCache caché de saldos en memoria que cuenta aciertos e invalidaciones.
// AfterVersion, si existe, corre fuera del candado justo después de leer la versión.
type BalanceCache struct {
	mu            sync.Mutex
	entries       map[string]map[string]decimal.Decimal
	versions      map[string]int64
	Hits          int
	Invalidations int
	DroppedSets   int
	AfterVersion  func()
}

var _ ports.BalanceCache = (*BalanceCache)(nil)

func NewBalanceCache() *BalanceCache {
	return &BalanceCache{entries: map[string]map[string]decimal.Decimal{}, versions: map[string]int64{}}
}

func (c *BalanceCache) Get(_ context.Context, companyID string) (map[string]decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[companyID]
	if ok {
		c.Hits++
	}
	return b, ok, nil
}

func (c *BalanceCache) Version(_ context.Context, companyID string) (int64, error) {
	c.mu.Lock()
	v := c.versions[companyID]
	hook := c.AfterVersion
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return v, nil
}

func (c *BalanceCache) Set(_ context.Context, companyID string, version int64, balances map[string]decimal.Decimal) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[companyID] != version {
		c.DroppedSets++
		return false, nil
	}
	c.entries[companyID] = balances
	return true, nil
}

func (c *BalanceCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, companyID)
	c.versions[companyID]++
	c.Invalidations++
	return nil
}

// DismissalStore descartes por usuario en memoria.
type DismissalStore struct {
	mu  sync.Mutex
	ids map[string]map[string]bool
}

var _ ports.DismissalStore = (*DismissalStore)(nil)

func NewDismissalStore() *DismissalStore {
	return &DismissalStore{ids: map[string]map[string]bool{}}
}

func (d *DismissalStore) Dismiss(_ context.Context, userID, notificationID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ids[userID] == nil {
		d.ids[userID] = map[string]bool{}
	}
	d.ids[userID][notificationID] = true
	return nil
}

func (d *DismissalStore) Dismissed(_ context.Context, userID string) (map[string]bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]bool, len(d.ids[userID]))
	for k, v := range d.ids[userID] {
		out[k] = v
	}
	return out, nil
}
