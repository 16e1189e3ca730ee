package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

var maxTaxRate = decimal.NewFromInt(100)

// CompanyUseCase configuración de la empresa del principal.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, log zerolog.Logger) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, log: log, now: time.Now}
}

// Get devuelve la empresa del principal.
func (uc *CompanyUseCase) Get(ctx context.Context, p *permission.Principal) (*dto.CompanyResponse, error) {
	if err := session.Authorize(p, permission.CompanyView); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.CompanyFromEntity(company)
	return &out, nil
}

// Update modifica nombre, RFC, dirección, logo y tasa de impuesto. Solo ADMIN.
func (uc *CompanyUseCase) Update(ctx context.Context, p *permission.Principal, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := session.RequireAdmin(p); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.TaxID != nil {
		company.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	if in.LogoURL != nil {
		company.LogoURL = strings.TrimSpace(*in.LogoURL)
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(maxTaxRate) {
			return nil, fmt.Errorf("%w: tax_rate debe estar entre 0 y 100", domain.ErrInvalidInput)
		}
		company.TaxRate = *in.TaxRate
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", p.UserID).Msg("empresa actualizada")
	out := dto.CompanyFromEntity(company)
	return &out, nil
}
