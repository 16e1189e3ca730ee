package permission

import "github.com/mdjvazquez/finmks-v/internal/domain/entity"

// Role variante cerrada de rol resuelto: Admin, SystemRole, CustomRole o Unresolved.
type Role interface {
	Name() string
	Allows(key string) bool
	sealed()
}

// Admin siempre tiene acceso total, sin importar lo almacenado.
type Admin struct{}

func (Admin) Name() string         { return entity.RoleAdmin }
func (Admin) Allows(_ string) bool { return true }
func (Admin) sealed()              {}

// SystemRole rol incorporado (no editable) distinto de ADMIN.
type SystemRole struct {
	name  string
	perms Set
}

func (r SystemRole) Name() string           { return r.name }
func (r SystemRole) Allows(key string) bool { return allows(r.perms, key) }
func (SystemRole) sealed()                  {}

// CustomRole rol definido por la empresa.
type CustomRole struct {
	name  string
	perms Set
}

func (r CustomRole) Name() string           { return r.name }
func (r CustomRole) Allows(key string) bool { return allows(r.perms, key) }
func (CustomRole) sealed()                  {}

// Unresolved rol sin fila en la base: se niega todo.
type Unresolved struct {
	name string
}

func (r Unresolved) Name() string       { return r.name }
func (Unresolved) Allows(_ string) bool { return false }
func (Unresolved) sealed()              {}

func allows(perms Set, key string) bool {
	if perms.Has(Wildcard) {
		return true
	}
	return perms.Has(key)
}

// Resolve construye la variante de rol a partir del nombre del principal y la fila encontrada (o nil).
func Resolve(roleName string, stored *entity.AppRole) Role {
	if roleName == entity.RoleAdmin {
		return Admin{}
	}
	if stored == nil {
		return Unresolved{name: roleName}
	}
	perms := NewSet(stored.Permissions...)
	if stored.IsSystem {
		return SystemRole{name: stored.Name, perms: perms}
	}
	return CustomRole{name: stored.Name, perms: perms}
}

// Principal usuario autenticado con su empresa y rol resuelto.
type Principal struct {
	UserID    string
	CompanyID string
	Name      string
	Language  string
	Role      Role
}

// CheckPermission nunca falla: sin principal o sin rol resuelto niega.
func CheckPermission(p *Principal, key string) bool {
	if p == nil || p.Role == nil {
		return false
	}
	return p.Role.Allows(key)
}

// CanAccess exige la llave y además la llave view de su organismo: apagar el grupo
// de un organismo corta el acceso a todos sus módulos.
func CanAccess(p *Principal, key string) bool {
	if !CheckPermission(p, key) {
		return false
	}
	if parent := OrganismView(key); parent != "" {
		return CheckPermission(p, parent)
	}
	return true
}

// IsAdmin indica si el principal tiene la variante Admin.
func IsAdmin(p *Principal) bool {
	if p == nil {
		return false
	}
	_, ok := p.Role.(Admin)
	return ok
}
