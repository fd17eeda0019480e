package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// Config parámetros del cliente REST.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client cliente del API de la tienda respaldado por resty. Implementa los puertos del POS.
// Cada mutación de stock es una sola llamada HTTP; no hay reintentos automáticos.
type Client struct {
	http *resty.Client

	mu       sync.RWMutex
	username string
}

var (
	_ pos.ItemFinder    = (*Client)(nil)
	_ pos.StockAdjuster = (*Client)(nil)
	_ pos.InvoiceStore  = (*Client)(nil)
)

// New construye el cliente. Timeout por defecto 15s.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: rc}
}

// Username usuario autenticado ("" antes de Login).
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// SetToken usa un JWT ya emitido.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Login obtiene el token y lo adjunta a las siguientes peticiones.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	out := new(dto.LoginResponse)
	resp, err := c.request(ctx).
		SetBody(dto.LoginRequest{Username: username, Password: password}).
		SetResult(out).
		Post("/api/login")
	if err := check(resp, err, "login"); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	c.mu.Lock()
	c.username = out.Username
	c.mu.Unlock()
	return out, nil
}

// FindBySKU coincidencia exacta por SKU. (nil, nil) si no hay.
func (c *Client) FindBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	var list []dto.ItemResponse
	resp, err := c.request(ctx).
		SetQueryParam("sku", sku).
		SetResult(&list).
		Get("/api/items")
	if err := check(resp, err, "buscar sku"); err != nil {
		return nil, err
	}
	for _, it := range list {
		if it.SKU == sku {
			return it.ToEntity(), nil
		}
	}
	return nil, nil
}

// GetByID artículo por ID. (nil, nil) si el servidor responde 404.
func (c *Client) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	out := new(dto.ItemResponse)
	resp, err := c.request(ctx).
		SetResult(out).
		Get("/api/items/" + url.PathEscape(id))
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := check(resp, err, "obtener artículo"); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

// Adjust POST /api/items/<id>/adjust_stock.
func (c *Client) Adjust(ctx context.Context, itemID string, delta int, reason entity.AdjustmentReason, actor string) (*entity.Item, error) {
	out := new(dto.ItemResponse)
	resp, err := c.request(ctx).
		SetBody(dto.AdjustStockRequest{Delta: delta, ChangedBy: actor, Reason: string(reason)}).
		SetResult(out).
		Post("/api/items/" + url.PathEscape(itemID) + "/adjust_stock")
	if err := check(resp, err, "ajustar stock"); err != nil {
		var se *domain.StockError
		if errors.As(err, &se) && delta < 0 {
			se.Requested = -delta
		}
		return nil, err
	}
	return out.ToEntity(), nil
}

// CreateInvoice POST /api/invoices. El POS envía applyStockChange=false.
func (c *Client) CreateInvoice(ctx context.Context, in billing.InvoiceInput) (*entity.Invoice, error) {
	req := dto.CreateInvoiceRequest{
		Number:           in.Number,
		CustomerName:     in.CustomerName,
		CustomerPhone:    in.CustomerPhone,
		TaxRate:          in.TaxRate,
		DiscountRate:     in.DiscountRate,
		Lines:            dto.LinesToDTO(in.Lines),
		ApplyStockChange: in.ApplyStockChange,
		CreatedBy:        in.CreatedBy,
	}
	if !in.PrintedAt.IsZero() {
		t := in.PrintedAt
		req.PrintedAt = &t
	}
	out := new(dto.InvoiceResponse)
	resp, err := c.request(ctx).SetBody(req).SetResult(out).Post("/api/invoices")
	if err := check(resp, err, "crear factura"); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

// UpdateInvoice PUT /api/invoices/<id>.
func (c *Client) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*entity.Invoice, error) {
	out := new(dto.InvoiceResponse)
	resp, err := c.request(ctx).SetBody(req).SetResult(out).Put("/api/invoices/" + url.PathEscape(id))
	if err := check(resp, err, "editar factura"); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

// Receive POST /api/receipts; devuelve la recepción y el artículo actualizado.
func (c *Client) Receive(ctx context.Context, itemID string, qty int, receivedBy string) (*entity.Receipt, *entity.Item, error) {
	out := new(dto.ReceiveResponse)
	resp, err := c.request(ctx).
		SetBody(dto.CreateReceiptRequest{ItemID: itemID, Quantity: qty, ReceivedBy: receivedBy}).
		SetResult(out).
		Post("/api/receipts")
	if err := check(resp, err, "registrar recepción"); err != nil {
		return nil, nil, err
	}
	return out.Receipt.ToEntity(), out.UpdatedItem.ToEntity(), nil
}

// ListReceipts GET /api/receipts (más recientes primero).
func (c *Client) ListReceipts(ctx context.Context) ([]*entity.Receipt, error) {
	var list []dto.ReceiptResponse
	resp, err := c.request(ctx).SetResult(&list).Get("/api/receipts")
	if err := check(resp, err, "listar recepciones"); err != nil {
		return nil, err
	}
	out := make([]*entity.Receipt, 0, len(list))
	for _, r := range list {
		out = append(out, r.ToEntity())
	}
	return out, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&dto.ErrorResponse{})
}

// check traduce errores de transporte y respuestas >= 400 a los errores de dominio.
func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	body, _ := resp.Error().(*dto.ErrorResponse)
	if body == nil {
		body = &dto.ErrorResponse{}
	}
	return fmt.Errorf("%s: %w", op, statusError(resp.StatusCode(), body))
}

func statusError(status int, body *dto.ErrorResponse) error {
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case body.Code == "INSUFFICIENT_STOCK":
		se := &domain.StockError{ItemID: body.ItemID, ItemName: body.ItemName}
		if body.Available != nil {
			se.Available = *body.Available
		}
		return se
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	case status == http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, domain.ErrInvalidInput)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
	case status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, domain.ErrForbidden)
	}
	return fmt.Errorf("api %d: %s", status, msg)
}
