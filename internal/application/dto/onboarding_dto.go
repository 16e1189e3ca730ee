package dto

import "time"

// CreateInvitationRequest invitación de un nuevo usuario a la empresa.
type CreateInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Role  string `json:"role" validate:"required,min=1,max=60"`
}

// InvitationResponse código emitido o verificado.
type InvitationResponse struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminCodeResponse código de step-up emitido.
type AdminCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
