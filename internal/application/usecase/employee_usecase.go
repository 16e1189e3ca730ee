package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// EmployeeUseCase fichas de RRHH de la empresa.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository, log zerolog.Logger) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo, log: log, now: time.Now}
}

// List devuelve los empleados de la empresa.
func (uc *EmployeeUseCase) List(ctx context.Context, p *permission.Principal) ([]dto.EmployeeResponse, error) {
	if err := session.Authorize(p, permission.EmployeesView); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

// Get devuelve un empleado.
func (uc *EmployeeUseCase) Get(ctx context.Context, p *permission.Principal, id string) (*dto.EmployeeResponse, error) {
	if err := session.Authorize(p, permission.EmployeesView); err != nil {
		return nil, err
	}
	e, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(e)
	return &out, nil
}

// Create da de alta un empleado; sin estado queda ACTIVE y sin fecha de ingreso usa hoy.
func (uc *EmployeeUseCase) Create(ctx context.Context, p *permission.Principal, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := session.Authorize(p, permission.EmployeesCreate); err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Employee{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		CreatedAt: now,
	}
	if err := uc.apply(e, in, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Str("employee_id", e.ID).Msg("empleado creado")
	out := toEmployeeResponse(e)
	return &out, nil
}

// Update reemplaza los datos del empleado.
func (uc *EmployeeUseCase) Update(ctx context.Context, p *permission.Principal, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := session.Authorize(p, permission.EmployeesEdit); err != nil {
		return nil, err
	}
	e, err := uc.get(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(e, in, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	out := toEmployeeResponse(e)
	return &out, nil
}

// Delete elimina la ficha; el usuario ligado, si existe, no se toca.
func (uc *EmployeeUseCase) Delete(ctx context.Context, p *permission.Principal, id string) error {
	if err := session.Authorize(p, permission.EmployeesDelete); err != nil {
		return err
	}
	if _, err := uc.get(ctx, p.CompanyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.CompanyID, id)
}

func (uc *EmployeeUseCase) get(ctx context.Context, companyID, id string) (*entity.Employee, error) {
	e, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (uc *EmployeeUseCase) apply(e *entity.Employee, in dto.EmployeeRequest, now time.Time) error {
	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Salary.IsNegative() {
		return fmt.Errorf("%w: el salario no puede ser negativo", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.EmployeeStatusActive
	}
	switch status {
	case entity.EmployeeStatusActive, entity.EmployeeStatusInactive, entity.EmployeeStatusOnLeave:
	default:
		return fmt.Errorf("%w: estado %q inválido", domain.ErrInvalidInput, status)
	}
	hire := entity.Day(now)
	if in.HireDate != "" {
		d, err := parseDay("hire_date", in.HireDate)
		if err != nil {
			return err
		}
		hire = d
	}
	e.UserID = in.UserID
	e.FirstName = first
	e.LastName = strings.TrimSpace(in.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(in.Email))
	e.Phone = strings.TrimSpace(in.Phone)
	e.Position = strings.TrimSpace(in.Position)
	e.Department = strings.TrimSpace(in.Department)
	e.Salary = in.Salary
	e.HireDate = hire
	e.Status = status
	e.UpdatedAt = now
	return nil
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HireDate:   formatDay(e.HireDate),
		Status:     e.Status,
	}
}
