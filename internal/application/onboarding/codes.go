// Package onboarding emite y verifica los códigos de un solo uso: invitaciones (6 h) y
// códigos de administrador para borrados privilegiados (5 min).
// Estados: ISSUED -> CONSUMED | EXPIRED, ambos terminales.
package onboarding

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/session"
	"github.com/mdjvazquez/finmks-v/internal/domain"
	"github.com/mdjvazquez/finmks-v/internal/domain/entity"
	"github.com/mdjvazquez/finmks-v/internal/domain/permission"
	"github.com/mdjvazquez/finmks-v/internal/domain/repository"
)

// maxIssueAttempts reintentos ante colisión de código (el espacio es de 16 bits).
const maxIssueAttempts = 8

// CodeService casos de uso de códigos de invitación y de administrador.
type CodeService struct {
	invitations repository.InvitationRepository
	adminCodes  repository.AdminCodeRepository
	users       repository.UserRepository
	roles       repository.RoleRepository
	now         func() time.Time
	newCode     func() (string, error)
}

// Option configura el servicio.
type Option func(*CodeService)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *CodeService) { s.now = now }
}

// WithCodeGenerator reemplaza el generador de códigos (tests).
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *CodeService) { s.newCode = gen }
}

// NewCodeService construye el servicio.
func NewCodeService(
	invitations repository.InvitationRepository,
	adminCodes repository.AdminCodeRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
	opts ...Option,
) *CodeService {
	s := &CodeService{
		invitations: invitations,
		adminCodes:  adminCodes,
		users:       users,
		roles:       roles,
		now:         time.Now,
		newCode:     NewCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now expone el reloj del servicio para que los consumidores usen el mismo instante.
func (s *CodeService) Now() time.Time { return s.now() }

// NewCode genera 4 caracteres hexadecimales en mayúsculas con crypto/rand.
func NewCode() (string, error) {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%04X", binary.BigEndian.Uint16(b[:])), nil
}

// Normalize quita espacios y pasa a mayúsculas.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IssueInvitation emite una invitación para un email que aún no pertenece a la empresa.
func (s *CodeService) IssueInvitation(ctx context.Context, p *permission.Principal, in dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	if err := session.Authorize(p, permission.UsersCreate); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.users.GetByEmailAndCompany(ctx, email, p.CompanyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.Role != entity.RoleAdmin {
		role, err := s.roles.GetByName(ctx, in.Role, p.CompanyID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("%w: el rol %q no existe", domain.ErrInvalidInput, in.Role)
		}
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		now := s.now()
		inv := &entity.InvitationCode{
			Code:      code,
			CompanyID: p.CompanyID,
			Email:     email,
			Name:      in.Name,
			Role:      in.Role,
			ExpiresAt: now.Add(entity.InvitationCodeTTL),
			CreatedAt: now,
		}
		if err := s.invitations.Insert(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return nil, err
		}
		return ToInvitationResponse(inv), nil
	}
	return nil, fmt.Errorf("%w: no se pudo generar un código único", domain.ErrConflict)
}

// VerifyInvitation valida el código sin consumirlo. Un código vencido se elimina.
func (s *CodeService) VerifyInvitation(ctx context.Context, code string) (*entity.InvitationCode, error) {
	code = Normalize(code)
	inv, err := s.invitations.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvalidCode
	}
	if inv.Expired(s.now()) {
		if _, err := s.invitations.Delete(ctx, code); err != nil {
			return nil, err
		}
		return nil, domain.ErrCodeExpired
	}
	return inv, nil
}

// ConsumeInvitation verifica y elimina el código usando repo (normalmente atado a la transacción del registro).
func (s *CodeService) ConsumeInvitation(ctx context.Context, repo repository.InvitationRepository, code string) (*entity.InvitationCode, error) {
	code = Normalize(code)
	inv, err := repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvalidCode
	}
	if inv.Expired(s.now()) {
		return nil, domain.ErrCodeExpired
	}
	deleted, err := repo.Delete(ctx, code)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, domain.ErrInvalidCode
	}
	return inv, nil
}

// IssueAdminCode emite un código de step-up. Solo un ADMIN puede emitirlo.
func (s *CodeService) IssueAdminCode(ctx context.Context, p *permission.Principal) (*dto.AdminCodeResponse, error) {
	if err := session.RequireAdmin(p); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		now := s.now()
		ac := &entity.AdminCode{
			Code:      code,
			CompanyID: p.CompanyID,
			CreatedBy: p.UserID,
			ExpiresAt: now.Add(entity.AdminCodeTTL),
			CreatedAt: now,
		}
		if err := s.adminCodes.Insert(ctx, ac); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return nil, err
		}
		return &dto.AdminCodeResponse{Code: ac.Code, ExpiresAt: ac.ExpiresAt}, nil
	}
	return nil, fmt.Errorf("%w: no se pudo generar un código único", domain.ErrConflict)
}

// VerifyAdminCode valida el código de la empresa sin consumirlo. Un código vencido se elimina.
func (s *CodeService) VerifyAdminCode(ctx context.Context, companyID, code string) error {
	code = Normalize(code)
	if code == "" {
		return domain.ErrAdminCodeRequired
	}
	ac, err := s.adminCodes.Get(ctx, companyID, code)
	if err != nil {
		return err
	}
	if ac == nil {
		return domain.ErrInvalidCode
	}
	if ac.Expired(s.now()) {
		if _, err := s.adminCodes.Delete(ctx, companyID, code); err != nil {
			return err
		}
		return domain.ErrCodeExpired
	}
	return nil
}

// ConsumeAdminCode verifica y elimina el código usando repo (atado a la transacción del borrado).
func (s *CodeService) ConsumeAdminCode(ctx context.Context, repo repository.AdminCodeRepository, companyID, code string) error {
	code = Normalize(code)
	if code == "" {
		return domain.ErrAdminCodeRequired
	}
	ac, err := repo.Get(ctx, companyID, code)
	if err != nil {
		return err
	}
	if ac == nil {
		return domain.ErrInvalidCode
	}
	if ac.Expired(s.now()) {
		return domain.ErrCodeExpired
	}
	deleted, err := repo.Delete(ctx, companyID, code)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrInvalidCode
	}
	return nil
}

// ToInvitationResponse convierte la invitación para la API.
func ToInvitationResponse(inv *entity.InvitationCode) *dto.InvitationResponse {
	return &dto.InvitationResponse{
		Code:      inv.Code,
		Email:     inv.Email,
		Name:      inv.Name,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt,
	}
}

