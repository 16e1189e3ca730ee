package dto

// RoleRequest alta/edición de rol personalizado.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=60"`
	Description string   `json:"description" validate:"omitempty,max=300"`
	Permissions []string `json:"permissions" validate:"dive,min=1,max=80"`
}

// ToggleGroupRequest alterna todas las llaves de un módulo y sus hijos.
type ToggleGroupRequest struct {
	Module string `json:"module" validate:"required"`
}

// RoleResponse rol con su conjunto de permisos.
type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsSystem    bool     `json:"is_system"`
}

// PermissionModuleResponse nodo del árbol de permisos para la UI de edición de roles.
type PermissionModuleResponse struct {
	Module   string                     `json:"module"`
	Actions  []string                   `json:"actions"`
	Children []PermissionModuleResponse `json:"children,omitempty"`
}
