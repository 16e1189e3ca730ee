package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/mdjvazquez/finmks-v/internal/application/usecase"
	"github.com/mdjvazquez/finmks-v/internal/domain"
)

// receiptFormField campo multipart con la imagen del comprobante.
const receiptFormField = "image"

// ReceiptHandler análisis de comprobantes asistido por IA.
type ReceiptHandler struct {
	uc *usecase.ReceiptUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *usecase.ReceiptUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Analyze godoc
// @Summary      Sugerir transacción desde un comprobante
// @Description  Recibe la foto del comprobante (multipart, campo "image") y devuelve los campos reconocidos.
// @Description  Timeout interno de 10 s. Si la IA no responde devuelve 503 y el alta manual sigue disponible.
// @Tags         transactions
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "imagen del comprobante"
// @Success      200    {object}  dto.ReceiptSuggestion
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /api/transactions/receipt-analysis [post]
func (h *ReceiptHandler) Analyze(c *fiber.Ctx) error {
	fh, err := c.FormFile(receiptFormField)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: falta el archivo %q", domain.ErrInvalidInput, receiptFormField))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("%w: no se pudo leer la imagen", domain.ErrInvalidInput))
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: no se pudo leer la imagen", domain.ErrInvalidInput))
	}

	out, err := h.uc.Analyze(c.Context(), GetPrincipal(c), image, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
