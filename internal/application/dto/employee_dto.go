package dto

import "github.com/shopspring/decimal"

// EmployeeRequest alta/edición de empleado.
type EmployeeRequest struct {
	UserID     string          `json:"user_id" validate:"omitempty,uuid"`
	FirstName  string          `json:"first_name" validate:"required,min=1,max=120"`
	LastName   string          `json:"last_name" validate:"omitempty,max=120"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone" validate:"omitempty,max=30"`
	Position   string          `json:"position" validate:"omitempty,max=120"`
	Department string          `json:"department" validate:"omitempty,max=120"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   string          `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	Status     string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   string          `json:"hire_date"`
	Status     string          `json:"status"`
}
