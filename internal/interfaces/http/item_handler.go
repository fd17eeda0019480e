package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ItemHandler catálogo y ajustes de stock (protegido).
type ItemHandler struct {
	catalog *catalog.UseCase
	stock   *stock.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(catalog *catalog.UseCase, stock *stock.UseCase) *ItemHandler {
	return &ItemHandler{catalog: catalog, stock: stock}
}

func itemList(items []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return out
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto en nombre, SKU o categoría"
// @Param        sku     query  string  false  "SKU exacto"
// @Success      200     {array}   dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.catalog.List(c.UserContext(), c.Query("search"), c.Query("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(itemList(items))
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	it, err := h.catalog.Create(c.UserContext(), in, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewItemResponse(it))
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	it, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponse(it))
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Actualización parcial. quantity se registra como ajuste MANUAL.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	it, err := h.catalog.Update(c.UserContext(), c.Params("id"), in, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponse(it))
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Ajustar stock
// @Description  Suma delta a la cantidad de forma atómica. Nunca deja cantidad negativa.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta y responsable"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/items/{id}/adjust_stock [post]
func (h *ItemHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	reason := entity.ReasonManual
	if in.Reason != "" {
		reason = entity.AdjustmentReason(strings.ToUpper(in.Reason))
	}
	actor := in.ChangedBy
	if actor == "" {
		actor = GetUsername(c)
	}
	it, err := h.stock.Adjust(c.UserContext(), stock.AdjustInput{
		ItemID: c.Params("id"),
		Delta:  in.Delta,
		Reason: reason,
		Actor:  actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewItemResponse(it))
}

// Adjustments godoc
// @Summary      Bitácora de ajustes de un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {array}  dto.StockAdjustmentResponse
// @Router       /api/items/{id}/adjustments [get]
func (h *ItemHandler) Adjustments(c *fiber.Ctx) error {
	list, err := h.stock.ListAdjustments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockAdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewStockAdjustmentResponse(a))
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Indicadores del inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/stats [get]
func (h *ItemHandler) Stats(c *fiber.Ctx) error {
	out, err := h.catalog.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
