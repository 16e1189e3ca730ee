package repository

import (
	"context"

	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia de empleados.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Employee, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, companyID, id string) error
}
