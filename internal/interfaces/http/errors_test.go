package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/domain"
)

func TestStatusFor_ClasesDeError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: monto", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: se requiere reports.view", domain.ErrForbidden), fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrAdminCodeRequired, fiber.StatusForbidden, "ADMIN_CODE_REQUIRED"},
		{domain.ErrInvalidCode, fiber.StatusForbidden, "INVALID_CODE"},
		{domain.ErrCodeExpired, fiber.StatusForbidden, "CODE_EXPIRED"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, fiber.StatusConflict, "CONFLICT"},
		{fmt.Errorf("%w: no se puede eliminar la caja", domain.ErrInUse), fiber.StatusConflict, "IN_USE"},
		{domain.ErrAnalysisUnavailable, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"},
		{errors.New("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestValidateStruct_MensajeConNombreJSON(t *testing.T) {
	err := validateStruct(&dto.CreateTransferRequest{
		Date:                      "2024-03-01",
		OriginCashRegisterID:      "0d6c2c9e-6a55-4f38-9f57-92a4a7d1b001",
		DestinationCashRegisterID: "0d6c2c9e-6a55-4f38-9f57-92a4a7d1b001",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "destination_cash_register_id")

	assert.NoError(t, validateStruct(&dto.DeleteMovementRequest{AdminCode: "A1F3"}))
	assert.Error(t, validateStruct(&dto.DeleteMovementRequest{AdminCode: "ZZZZ"}))
}
