package pos

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// Customer datos del cliente impresos en la factura.
type Customer struct {
	Name  string
	Phone string
}

// Rates porcentajes de descuento e impuesto (0..100).
type Rates struct {
	Discount decimal.Decimal
	Tax      decimal.Decimal
}

// Coordinator arma ventas sobre tres puertos. No mantiene locks globales: cada Draft tiene el suyo
// y el stock se descuenta artículo por artículo, al escanear.
type Coordinator struct {
	finder    ItemFinder
	adjuster  StockAdjuster
	store     InvoiceStore
	log       *logger.Logger
	newNumber func() string
}

// Option configura el Coordinator.
type Option func(*Coordinator)

// WithNumberGenerator reemplaza NewInvoiceNumber (tests).
func WithNumberGenerator(fn func() string) Option {
	return func(c *Coordinator) { c.newNumber = fn }
}

// NewCoordinator construye el coordinador.
func NewCoordinator(finder ItemFinder, adjuster StockAdjuster, store InvoiceStore, log *logger.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	c := &Coordinator{
		finder:    finder,
		adjuster:  adjuster,
		store:     store,
		log:       log.Component("pos"),
		newNumber: NewInvoiceNumber,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewDraft abre una venta vacía a nombre de actor.
func (c *Coordinator) NewDraft(actor string) *Draft {
	return &Draft{c: c, actor: actor, state: StateEmpty}
}

// ResolveItem busca por SKU exacto y, si no aparece, por ID. ErrNotFound si ninguno.
func ResolveItem(ctx context.Context, finder ItemFinder, code string) (*entity.Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	it, err := finder.FindBySKU(ctx, code)
	if err != nil {
		return nil, err
	}
	if it != nil {
		return it, nil
	}
	it, err = finder.GetByID(ctx, code)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("artículo %q no encontrado: %w", code, domain.ErrNotFound)
	}
	return it, nil
}

// NewInvoiceNumber INV-<milisegundos unix en base36>-<4 caracteres aleatorios base36>, en mayúsculas.
// Único en la práctica; el servidor rechaza duplicados con ErrConflict.
func NewInvoiceNumber() string {
	return invoiceNumber(time.Now(), uuid.New())
}

func invoiceNumber(now time.Time, u uuid.UUID) string {
	const space = 36 * 36 * 36 * 36
	ms := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := strconv.FormatUint(uint64(binary.BigEndian.Uint32(u[:4])%space), 36)
	suffix = strings.Repeat("0", 4-len(suffix)) + suffix
	return strings.ToUpper("INV-" + ms + "-" + suffix)
}
