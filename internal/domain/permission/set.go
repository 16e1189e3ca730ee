package permission

import "sort"

// Wildcard concede todos los permisos.
const Wildcard = "*"

// Set conjunto de llaves de permiso.
type Set map[string]struct{}

// NewSet construye un conjunto con las llaves dadas.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Set) Add(key string)    { s[key] = struct{}{} }
func (s Set) Remove(key string) { delete(s, key) }

// Has indica pertenencia literal (no interpreta el comodín).
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// ContainsAll indica si todas las llaves de other están en s.
func (s Set) ContainsAll(other Set) bool {
	for k := range other {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Clone copia el conjunto.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted devuelve las llaves ordenadas, para persistir de forma estable.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
