package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/onboarding"
	"github.com/mdjvazquez/finmks-v/internal/application/ports"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// Datos del empleado creado automáticamente para el dueño de la empresa.
const (
	ownerPosition = "CEO / Admin"
	noLastName    = "-"
)

// TokenIssuer emite el token de sesión (pkg/jwt.Manager).
type TokenIssuer interface {
	Issue(userID, companyID, role string) (string, error)
}

// AuthUseCase casos de uso de autenticación: alta de empresa, registro y login.
type AuthUseCase struct {
	users  repository.UserRepository
	tx     ports.TxRunner
	codes  *onboarding.CodeService
	tokens TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, tx ports.TxRunner, codes *onboarding.CodeService, tokens TokenIssuer, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, tx: tx, codes: codes, tokens: tokens, log: log, now: time.Now}
}

// RegisterCompany crea empresa, usuario ADMIN, empleado dueño y caja por defecto en una sola transacción.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.CompanyName),
		TaxID:     strings.TrimSpace(in.TaxID),
		Address:   strings.TrimSpace(in.Address),
		TaxRate:   decimal.NewFromInt(entity.DefaultTaxRate),
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleAdmin,
		Language:     entity.LanguageES,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	company.CreatedBy = user.ID

	err = uc.tx.Run(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Companies.Create(ctx, company); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		first, last := splitName(user.Name)
		if err := repos.Employees.Create(ctx, &entity.Employee{
			ID:         uuid.New().String(),
			CompanyID:  company.ID,
			UserID:     user.ID,
			FirstName:  first,
			LastName:   last,
			Email:      email,
			Position:   ownerPosition,
			Department: entity.DepartmentManagement,
			Salary:     decimal.Zero,
			HireDate:   entity.Day(now),
			Status:     entity.EmployeeStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("crear empleado: %w", err)
		}
		if err := repos.Registers.Create(ctx, &entity.CashRegister{
			ID:          uuid.New().String(),
			CompanyID:   company.ID,
			Name:        entity.DefaultCashRegisterName,
			Description: entity.DefaultCashRegisterDescription,
			IsDefault:   true,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("crear caja: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("empresa registrada")
	return &dto.RegisterCompanyResponse{
		Company: dto.CompanyFromEntity(company),
		Token:   token,
		User:    dto.UserFromEntity(user),
	}, nil
}

// SignUp registra un usuario. Con código de invitación se une a la empresa con el rol invitado
// y se crea su ficha de empleado; sin código queda sin empresa con rol VIEWER.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	code := onboarding.Normalize(in.InvitationCode)
	if code != "" {
		// Verificar fuera de la transacción para que un código vencido quede eliminado.
		inv, err := uc.codes.VerifyInvitation(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := invitedEmail(inv, email); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleViewer,
		Language:     entity.LanguageES,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepositories) error {
		if code != "" {
			inv, err := uc.codes.ConsumeInvitation(ctx, repos.Invitations, code)
			if err != nil {
				return err
			}
			if err := invitedEmail(inv, email); err != nil {
				return err
			}
			user.CompanyID = inv.CompanyID
			user.Role = inv.Role
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		if user.CompanyID == "" {
			return nil
		}
		first, last := splitName(user.Name)
		if err := repos.Employees.Create(ctx, &entity.Employee{
			ID:         uuid.New().String(),
			CompanyID:  user.CompanyID,
			UserID:     user.ID,
			FirstName:  first,
			LastName:   last,
			Email:      email,
			Position:   user.Role,
			Department: entity.DepartmentGeneral,
			Salary:     decimal.Zero,
			HireDate:   entity.Day(now),
			Status:     entity.EmployeeStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("crear empleado: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("company_id", user.CompanyID).Str("role", user.Role).Msg("usuario registrado")
	return &dto.LoginResponse{Token: token, User: dto.UserFromEntity(user)}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.UserFromEntity(user)}, nil
}

func (uc *AuthUseCase) token(u *entity.User) (string, error) {
	return uc.tokens.Issue(u.ID, u.CompanyID, u.Role)
}

// invitedEmail exige que quien se registra sea el invitado. El error no revela el email invitado.
func invitedEmail(inv *entity.InvitationCode, email string) error {
	if normalizeEmail(inv.Email) != email {
		return fmt.Errorf("%w: la invitación pertenece a otro email", domain.ErrInvalidCode)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// splitName separa nombre y apellidos; sin apellidos usa "-".
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return full, noLastName
	case 1:
		return parts[0], noLastName
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
