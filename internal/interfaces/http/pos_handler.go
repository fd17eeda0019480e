package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// POSHandler borradores de venta en el servidor (protegido).
type POSHandler struct {
	sessions *pos.SessionStore
}

// NewPOSHandler construye el handler.
func NewPOSHandler(sessions *pos.SessionStore) *POSHandler {
	return &POSHandler{sessions: sessions}
}

func draftResponse(id string, d *pos.Draft) dto.DraftResponse {
	lines := d.Lines()
	out := dto.DraftResponse{
		ID:       id,
		State:    d.State().String(),
		Actor:    d.Actor(),
		Lines:    dto.LinesToDTO(lines),
		Subtotal: billing.Compute(lines, decimal.Zero, decimal.Zero).Rounded().Subtotal,
	}
	if inv := d.Invoice(); inv != nil {
		r := dto.NewInvoiceResponse(inv)
		out.Invoice = &r
	}
	return out
}

// draft busca el borrador de la ruta. Solo su cajero (o un admin) puede usarlo.
func (h *POSHandler) draft(c *fiber.Ctx) (string, *pos.Draft, error) {
	id := c.Params("id")
	d, err := h.sessions.Get(id)
	if err != nil {
		return id, nil, err
	}
	if GetRole(c) != entity.RoleAdmin && d.Actor() != GetUsername(c) {
		return id, nil, fmt.Errorf("borrador %s de otro cajero: %w", id, domain.ErrForbidden)
	}
	return id, d, nil
}

// Open godoc
// @Summary      Abrir venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.DraftResponse
// @Router       /api/pos/drafts [post]
func (h *POSHandler) Open(c *fiber.Ctx) error {
	id, d := h.sessions.Open(GetUsername(c))
	return c.Status(fiber.StatusCreated).JSON(draftResponse(id, d))
}

// Delete godoc
// @Summary      Descartar venta terminada
// @Description  Libera un borrador confirmado, anulado o vacío. Uno en curso debe anularse antes.
// @Tags         pos
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/drafts/{id} [delete]
func (h *POSHandler) Delete(c *fiber.Ctx) error {
	id, _, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.sessions.Remove(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get godoc
// @Summary      Consultar venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/drafts/{id} [get]
func (h *POSHandler) Get(c *fiber.Ctx) error {
	id, d, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draftResponse(id, d))
}

// AddLine godoc
// @Summary      Escanear artículo
// @Description  Descuenta el stock de inmediato (SALE).
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.AddLineRequest  true  "SKU o ID y cantidad"
// @Success      200   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/pos/drafts/{id}/lines [post]
func (h *POSHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, d, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := d.AddLine(c.UserContext(), in.Code, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(draftResponse(id, d))
}

// Clear godoc
// @Summary      Vaciar venta sin devolver stock
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Router       /api/pos/drafts/{id}/clear [post]
func (h *POSHandler) Clear(c *fiber.Ctx) error {
	id, d, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := d.Clear(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(draftResponse(id, d))
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve al stock cada línea; las que fallan se informan y quedan pendientes.
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.VoidResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/drafts/{id}/void [post]
func (h *POSHandler) Void(c *fiber.Ctx) error {
	id, d, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	rep, err := d.Void(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := dto.VoidResponse{
		Restored: dto.LinesToDTO(rep.Restored),
		Failed:   make([]dto.VoidFailureDTO, 0, len(rep.Failed)),
		Draft:    draftResponse(id, d),
	}
	for _, f := range rep.Failed {
		out.Failed = append(out.Failed, dto.VoidFailureDTO{ItemID: f.ItemID, Name: f.Name, Quantity: f.Quantity, Error: f.Err.Error()})
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar venta
// @Description  Guarda la factura sin volver a descontar stock. Repetir devuelve la misma factura.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.CommitDraftRequest  true  "Cliente y tasas"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/drafts/{id}/commit [post]
func (h *POSHandler) Commit(c *fiber.Ctx) error {
	var in dto.CommitDraftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	id, d, err := h.draft(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := d.Commit(c.UserContext(),
		pos.Customer{Name: in.CustomerName, Phone: in.CustomerPhone},
		pos.Rates{Discount: in.DiscountRate, Tax: in.TaxRate},
	); err != nil {
		return respondError(c, err)
	}
	return c.JSON(draftResponse(id, d))
}
