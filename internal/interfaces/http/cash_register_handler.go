package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
)

// CashRegisterHandler cajas y su libro.
type CashRegisterHandler struct {
	uc *usecase.CashRegisterUseCase
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(uc *usecase.CashRegisterUseCase) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc}
}

// List devuelve las cajas con su saldo derivado.
// GET /api/cash-registers
func (h *CashRegisterHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/cash-registers
func (h *CashRegisterHandler) Create(c *fiber.Ctx) error {
	var in dto.CashRegisterRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/cash-registers/:id
func (h *CashRegisterHandler) Update(c *fiber.Ctx) error {
	var in dto.CashRegisterRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar caja
// @Description  La caja por defecto y las cajas con movimientos no se pueden eliminar.
// @Tags         cash-registers
// @Security     Bearer
// @Param        id   path  string  true  "ID de la caja"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id} [delete]
func (h *CashRegisterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ledger libro de la caja con saldo inicial y acumulado por fila.
// GET /api/cash-registers/:id/ledger?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *CashRegisterHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.uc.Ledger(c.Context(), GetPrincipal(c), c.Params("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
