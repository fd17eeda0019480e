package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/domain"
	domainbilling "github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// InvoiceInput datos para persistir una factura.
type InvoiceInput struct {
	Number        string
	PrintedAt     time.Time // cero = ahora
	CustomerName  string
	CustomerPhone string
	DiscountRate  decimal.Decimal
	TaxRate       decimal.Decimal
	Lines         []entity.InvoiceLine
	CreatedBy     string
	// ApplyStockChange descuenta (SALE) cada línea ligada a un artículo en la misma transacción.
	// El POS ya descontó al escanear y envía false.
	ApplyStockChange bool
}

// InputFromRequest convierte el cuerpo HTTP.
func InputFromRequest(req dto.CreateInvoiceRequest) InvoiceInput {
	in := InvoiceInput{
		Number:           req.Number,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		DiscountRate:     req.DiscountRate,
		TaxRate:          req.TaxRate,
		Lines:            dto.LinesFromDTO(req.Lines),
		CreatedBy:        req.CreatedBy,
		ApplyStockChange: req.ApplyStockChange,
	}
	if req.PrintedAt != nil {
		in.PrintedAt = req.PrintedAt.UTC()
	}
	return in
}

// UseCase persistencia, consulta, edición e impresión de facturas.
type UseCase struct {
	txRunner  repository.TxRunner
	invoices  repository.InvoiceRepository
	generator InvoicePDFGenerator
	shop      ShopInfo
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. generator puede ser nil si no se expone PDF.
func NewUseCase(
	txRunner repository.TxRunner,
	invoices repository.InvoiceRepository,
	generator InvoicePDFGenerator,
	shop ShopInfo,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:  txRunner,
		invoices:  invoices,
		generator: generator,
		shop:      shop,
		log:       log.Component("billing"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create valida y persiste la factura. Con ApplyStockChange cualquier línea sin stock revierte todo.
// Número duplicado => domain.ErrConflict.
func (uc *UseCase) Create(ctx context.Context, in InvoiceInput) (*entity.Invoice, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" || len(in.Lines) == 0 {
		return nil, fmt.Errorf("número y líneas son obligatorios: %w", domain.ErrInvalidInput)
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	now := uc.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        number,
		PrintedAt:     in.PrintedAt,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		DiscountRate:  domainbilling.ClampRate(in.DiscountRate),
		TaxRate:       domainbilling.ClampRate(in.TaxRate),
		Lines:         append([]entity.InvoiceLine(nil), in.Lines...),
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inv.PrintedAt.IsZero() {
		inv.PrintedAt = now
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := resolveLineItems(ctx, repos.Items, inv.Lines); err != nil {
			return err
		}
		if in.ApplyStockChange {
			for _, l := range inv.Lines {
				if l.ItemID == "" || l.Quantity == 0 {
					continue
				}
				if _, _, err := stock.AdjustInTx(ctx, repos, stock.AdjustInput{
					ItemID: l.ItemID,
					Delta:  -l.Quantity,
					Reason: entity.ReasonSale,
					Actor:  in.CreatedBy,
				}, now); err != nil {
					return err
				}
			}
		}
		return repos.Invoices.Create(ctx, inv)
	})
	if err != nil {
		var se *domain.StockError
		if errors.As(err, &se) {
			metrics.StockRejections.WithLabelValues(string(entity.ReasonSale)).Inc()
		}
		uc.log.Warn().Err(err).Str("number", number).Bool("apply_stock", in.ApplyStockChange).Msg("factura rechazada")
		return nil, err
	}

	metrics.Invoices.WithLabelValues(strconv.FormatBool(in.ApplyStockChange)).Inc()
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Int("lines", len(inv.Lines)).
		Bool("apply_stock", in.ApplyStockChange).
		Msg("factura creada")
	return inv, nil
}

// resolveLineItems limpia ItemID de las líneas que no apuntan a un artículo existente.
func resolveLineItems(ctx context.Context, items repository.ItemRepository, lines []entity.InvoiceLine) error {
	for i := range lines {
		if lines[i].ItemID == "" {
			continue
		}
		it, err := items.GetByID(ctx, lines[i].ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			lines[i].ItemID = ""
		}
	}
	return nil
}

func validateLines(lines []entity.InvoiceLine) error {
	for _, l := range lines {
		if l.Quantity < 0 || l.Price.LessThan(decimal.Zero) {
			return fmt.Errorf("línea %q: precio y cantidad deben ser >= 0: %w", l.Name, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Get obtiene la factura; ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

// List facturas, fecha de impresión más reciente primero.
func (uc *UseCase) List(ctx context.Context) ([]*entity.Invoice, error) {
	list, err := uc.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].PrintedAt.Equal(list[j].PrintedAt) {
			return list[i].PrintedAt.After(list[j].PrintedAt)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Update edición parcial (cliente, tasas, líneas). Nunca toca el stock.
func (uc *UseCase) Update(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*entity.Invoice, error) {
	if req.Empty() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		inv, err := repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
		}
		if req.Number != nil {
			n := strings.TrimSpace(*req.Number)
			if n == "" {
				return domain.ErrInvalidInput
			}
			inv.Number = n
		}
		if req.PrintedAt != nil {
			inv.PrintedAt = req.PrintedAt.UTC()
		}
		if req.CustomerName != nil {
			inv.CustomerName = *req.CustomerName
		}
		if req.CustomerPhone != nil {
			inv.CustomerPhone = *req.CustomerPhone
		}
		if req.DiscountRate != nil {
			inv.DiscountRate = domainbilling.ClampRate(*req.DiscountRate)
		}
		if req.TaxRate != nil {
			inv.TaxRate = domainbilling.ClampRate(*req.TaxRate)
		}
		if req.Lines != nil {
			lines := dto.LinesFromDTO(*req.Lines)
			if len(lines) == 0 {
				return fmt.Errorf("la factura requiere al menos una línea: %w", domain.ErrInvalidInput)
			}
			if err := validateLines(lines); err != nil {
				return err
			}
			if err := resolveLineItems(ctx, repos.Items, lines); err != nil {
				return err
			}
			inv.Lines = lines
		}
		inv.UpdatedAt = uc.now()
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Msg("factura actualizada")
	return out, nil
}

// Totals totales de la factura recalculados desde sus líneas.
func Totals(inv *entity.Invoice) domainbilling.Totals {
	return domainbilling.Compute(inv.Lines, inv.DiscountRate, inv.TaxRate)
}

// PDF genera el PDF de la factura y el nombre de archivo sugerido.
func (uc *UseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", errors.New("pdf: generador no configurado")
	}
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.GenerateInvoicePDF(ctx, uc.shop, inv, Totals(inv))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return b, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
