// Package permission evalúa el acceso de un principal a partir del árbol estático de módulos
// y del conjunto plano de llaves de su rol.
package permission

import "strings"

// Acciones hoja.
const (
	ActionView    = "view"
	ActionCreate  = "create"
	ActionEdit    = "edit"
	ActionDelete  = "delete"
	ActionAnalyze = "analyze"
)

// Module nodo del árbol de capacidades. Es configuración, no estado persistido.
type Module struct {
	Key      string
	Actions  []string
	Children []Module
}

// Tree árbol de módulos de la aplicación.
var Tree = []Module{
	{
		Key:     "finances_organism",
		Actions: []string{ActionView},
		Children: []Module{
			{Key: "dashboard", Actions: []string{ActionView}},
			{Key: "transactions", Actions: []string{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{Key: "cash_registers", Actions: []string{ActionView, ActionCreate, ActionEdit, ActionDelete}},
			{Key: "reports", Actions: []string{ActionView, ActionCreate, ActionAnalyze}},
			{Key: "notifications", Actions: []string{ActionView}},
		},
	},
	{
		Key:     "hr_organism",
		Actions: []string{ActionView},
		Children: []Module{
			{Key: "employees", Actions: []string{ActionView, ActionCreate, ActionEdit, ActionDelete}},
		},
	},
	{
		Key:     "settings_organism",
		Actions: []string{ActionView},
		Children: []Module{
			{Key: "company", Actions: []string{ActionView, ActionEdit}},
			{Key: "users", Actions: []string{ActionView, ActionCreate, ActionEdit}},
			{Key: "roles", Actions: []string{ActionView, ActionCreate, ActionEdit, ActionDelete}},
		},
	},
}

// Key arma la llave hoja "module.action".
func Key(module, action string) string {
	return module + "." + action
}

// ModulePermissions recolecta las llaves del nodo y de todos sus descendientes.
func ModulePermissions(node Module) Set {
	out := NewSet()
	collect(node, out)
	return out
}

func collect(node Module, out Set) {
	for _, a := range node.Actions {
		out.Add(Key(node.Key, a))
	}
	for _, child := range node.Children {
		collect(child, out)
	}
}

// ToggleGroup devuelve un nuevo conjunto: si todas las llaves del grupo ya están, las quita;
// si falta alguna, las agrega todas. current no se modifica.
func ToggleGroup(node Module, current Set) Set {
	group := ModulePermissions(node)
	next := current.Clone()
	if current.ContainsAll(group) {
		for k := range group {
			next.Remove(k)
		}
		return next
	}
	for k := range group {
		next.Add(k)
	}
	return next
}

// organismViews módulo descendiente -> llave view de su organismo raíz.
var organismViews = indexOrganisms(Tree)

func indexOrganisms(roots []Module) map[string]string {
	out := make(map[string]string)
	var walk func(nodes []Module, view string)
	walk = func(nodes []Module, view string) {
		for _, n := range nodes {
			out[n.Key] = view
			walk(n.Children, view)
		}
	}
	for _, root := range roots {
		walk(root.Children, Key(root.Key, ActionView))
	}
	return out
}

// OrganismView devuelve la llave view del organismo que contiene key.
// Vacío para llaves de organismo, comodín o módulos desconocidos.
func OrganismView(key string) string {
	module, _, ok := strings.Cut(key, ".")
	if !ok {
		return ""
	}
	return organismViews[module]
}

// FindModule busca un nodo por llave en todo el árbol.
func FindModule(key string) (Module, bool) {
	return find(Tree, key)
}

func find(nodes []Module, key string) (Module, bool) {
	for _, n := range nodes {
		if n.Key == key {
			return n, true
		}
		if m, ok := find(n.Children, key); ok {
			return m, true
		}
	}
	return Module{}, false
}

// IsKnownKey indica si key es "*" o una llave hoja del árbol.
func IsKnownKey(key string) bool {
	if key == Wildcard {
		return true
	}
	module, action, ok := strings.Cut(key, ".")
	if !ok {
		return false
	}
	node, found := FindModule(module)
	if !found {
		return false
	}
	for _, a := range node.Actions {
		if a == action {
			return true
		}
	}
	return false
}
