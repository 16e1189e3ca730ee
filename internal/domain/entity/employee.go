package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Employee.
const (
	EmployeeStatusActive   = "ACTIVE"
	EmployeeStatusInactive = "INACTIVE"
	EmployeeStatusOnLeave  = "ON_LEAVE"
)

// Departamentos asignados automáticamente.
const (
	DepartmentGeneral    = "General"
	DepartmentManagement = "Management"
)

// Employee registro de RRHH; puede o no estar ligado a un User.
type Employee struct {
	ID         string
	CompanyID  string
	UserID     string // opcional
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Position   string
	Department string
	Salary     decimal.Decimal
	HireDate   time.Time
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
