package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
)

// DashboardHandler maneja el resumen financiero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ingresos, gastos, saldo neto y cuentas por cobrar/pagar.
// GET /api/dashboard/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Sin rango se usa el flujo completo.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var in dto.DashboardRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
