package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInUse              = errors.New("el recurso está referenciado por otros registros")
)

// Errores del flujo de códigos (invitaciones y step-up de administrador).
var (
	ErrInvalidCode       = errors.New("Invalid Code")
	ErrCodeExpired       = errors.New("Code Expired")
	ErrAdminCodeRequired = errors.New("se requiere un código de administrador")
	ErrSystemRole        = errors.New("los roles del sistema no se pueden modificar")
)

// ErrAnalysisUnavailable indica que el colaborador de IA no respondió; nunca bloquea el flujo principal.
var ErrAnalysisUnavailable = errors.New("analysis unavailable")
