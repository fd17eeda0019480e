package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
)

// ReceiptHandler recepciones de mercancía (protegido).
type ReceiptHandler struct {
	uc *receiving.UseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receiving.UseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción
// @Description  Suma la cantidad al artículo y agrega la recepción en una sola transacción.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "Artículo y cantidad"
// @Success      201   {object}  dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	by := in.ReceivedBy
	if by == "" {
		by = GetUsername(c)
	}
	rec, item, err := h.uc.Record(c.UserContext(), receiving.ReceiveInput{
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		ReceivedBy: by,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveResponse{
		UpdatedItem: dto.NewItemResponse(item),
		Receipt:     dto.NewReceiptResponse(rec),
	})
}

// List godoc
// @Summary      Listar recepciones
// @Description  Más recientes primero.
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReceiptResponse
// @Router       /api/receipts [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.NewReceiptResponse(r))
	}
	return c.JSON(out)
}
