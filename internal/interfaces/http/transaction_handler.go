package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mdjvazquez/finmks-v/internal/application/dto"
	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
)

// HeaderAdminCode alternativa al campo admin_code del cuerpo en los DELETE.
const HeaderAdminCode = "X-Admin-Code"

// TransactionHandler transacciones y transferencias.
type TransactionHandler struct {
	uc *usecase.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// List flujo unificado, más reciente primero.
// GET /api/transactions
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar transacción
// @Description  status por defecto: PENDING para RECEIVABLE/PAYABLE, PAID para CASH. Sin caja se usa la caja por defecto.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "transacción"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateTransfer POST /api/transfers
func (h *TransactionHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateTransfer(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkPaid PATCH /api/transactions/:id/paid
func (h *TransactionHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Transacción o transferencia. Un no-ADMIN debe enviar un código de administrador vigente.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Param        id            path    string                     true   "ID del movimiento"
// @Param        X-Admin-Code  header  string                     false  "código de administrador"
// @Param        body          body    dto.DeleteMovementRequest  false  "admin_code"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteMovementRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, invalidBody())
		}
	}
	if in.AdminCode == "" {
		in.AdminCode = c.Get(HeaderAdminCode)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), GetPrincipal(c), c.Params("id"), in.AdminCode); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
