package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/domain"
	domainbilling "github.com/jhoicas/tienda-pos/internal/domain/billing"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// Receiver registro y consulta de recepciones.
type Receiver interface {
	Receive(ctx context.Context, itemID string, qty int, receivedBy string) (*entity.Receipt, *entity.Item, error)
	ListReceipts(ctx context.Context) ([]*entity.Receipt, error)
}

// Session caja interactiva: una venta abierta a la vez.
type Session struct {
	coord    *pos.Coordinator
	finder   pos.ItemFinder
	receiver Receiver
	actor    string
	rates    pos.Rates

	in    io.Reader
	out   io.Writer
	draft *pos.Draft
}

// NewSession construye la sesión. rates son las tasas por defecto para total y commit.
func NewSession(coord *pos.Coordinator, finder pos.ItemFinder, receiver Receiver, actor string, rates pos.Rates, in io.Reader, out io.Writer) *Session {
	return &Session{
		coord:    coord,
		finder:   finder,
		receiver: receiver,
		actor:    actor,
		rates:    rates,
		in:       in,
		out:      out,
		draft:    coord.NewDraft(actor),
	}
}

const help = `comandos:
  add <sku|id> [cant]         agrega artículo (descuenta stock)
  lines                       líneas de la venta
  total [desc%] [imp%]        vista previa de totales
  clear                       vacía la venta sin devolver stock
  void                        anula y devuelve el stock
  commit [desc%] [imp%] [cliente...]  guarda la factura
  new                         abre una venta nueva
  receive <sku|id> <cant>     registra recepción de mercancía
  receipts                    últimas recepciones
  help | quit
`

// Run lee comandos hasta EOF o quit. Los errores de cada comando se imprimen y la sesión sigue.
func (s *Session) Run(ctx context.Context) error {
	sc := bufio.NewScanner(s.in)
	s.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			s.prompt()
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]
		if cmd == "quit" || cmd == "exit" {
			s.warnOpenDraft()
			return nil
		}
		if err := s.exec(ctx, cmd, args); err != nil {
			fmt.Fprintf(s.out, "error: %s\n", describe(err))
		}
		s.prompt()
	}
	s.warnOpenDraft()
	return sc.Err()
}

func (s *Session) prompt() {
	fmt.Fprintf(s.out, "[%s] > ", s.draft.State())
}

func (s *Session) warnOpenDraft() {
	if s.draft.State() == pos.StateBuilding {
		fmt.Fprintln(s.out, "aviso: la venta abierta queda con stock descontado; use void para devolverlo")
	}
}

func (s *Session) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		fmt.Fprint(s.out, help)
	case "add":
		return s.add(ctx, args)
	case "lines":
		s.printLines()
	case "total":
		r, _ := s.parseRates(args)
		s.printTotals(s.draft.Totals(r))
	case "clear":
		if err := s.draft.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "venta vaciada")
	case "void":
		return s.void(ctx)
	case "commit":
		return s.commit(ctx, args)
	case "new":
		if s.draft.State() == pos.StateBuilding {
			return fmt.Errorf("hay una venta en curso; commit o void primero: %w", domain.ErrConflict)
		}
		s.draft = s.coord.NewDraft(s.actor)
		fmt.Fprintln(s.out, "venta nueva")
	case "receive":
		return s.receive(ctx, args)
	case "receipts":
		return s.receipts(ctx)
	default:
		return fmt.Errorf("comando %q desconocido (help): %w", cmd, domain.ErrInvalidInput)
	}
	return nil
}

func (s *Session) add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: add <sku|id> [cant]: %w", domain.ErrInvalidInput)
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("cantidad %q: %w", args[1], domain.ErrInvalidInput)
		}
		qty = n
	}
	it, err := s.draft.AddLine(ctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "+ %d x %s  (quedan %d)\n", qty, it.Name, it.Quantity)
	return nil
}

func (s *Session) void(ctx context.Context) error {
	rep, err := s.draft.Void(ctx)
	if err != nil {
		return err
	}
	for _, l := range rep.Restored {
		fmt.Fprintf(s.out, "devuelto %d x %s\n", l.Quantity, l.Name)
	}
	for _, f := range rep.Failed {
		fmt.Fprintf(s.out, "NO devuelto %d x %s: %s\n", f.Quantity, f.Name, describe(f.Err))
	}
	if !rep.OK() {
		fmt.Fprintln(s.out, "repita void para reintentar las líneas pendientes")
		return nil
	}
	fmt.Fprintln(s.out, "venta anulada")
	return nil
}

func (s *Session) commit(ctx context.Context, args []string) error {
	r, rest := s.parseRates(args)
	inv, err := s.draft.Commit(ctx, pos.Customer{Name: strings.Join(rest, " ")}, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "factura %s guardada\n", inv.Number)
	s.printTotals(domainbilling.Compute(inv.Lines, inv.DiscountRate, inv.TaxRate))
	return nil
}

func (s *Session) receive(ctx context.Context, args []string) error {
	if s.receiver == nil {
		return errors.New("recepción no disponible")
	}
	if len(args) != 2 {
		return fmt.Errorf("uso: receive <sku|id> <cant>: %w", domain.ErrInvalidInput)
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("cantidad %q: %w", args[1], domain.ErrInvalidInput)
	}
	item, err := pos.ResolveItem(ctx, s.finder, args[0])
	if err != nil {
		return err
	}
	rec, updated, err := s.receiver.Receive(ctx, item.ID, qty, s.actor)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "recibido %d x %s: %d -> %d\n", rec.Quantity, updated.Name, rec.PreviousQuantity, rec.NewQuantity)
	return nil
}

func (s *Session) receipts(ctx context.Context) error {
	if s.receiver == nil {
		return errors.New("recepción no disponible")
	}
	list, err := s.receiver.ListReceipts(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FECHA\tARTÍCULO\tCANT\tANTES\tDESPUÉS\tPOR")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", r.SortTime().Format("2006-01-02 15:04"), r.ItemName, r.Quantity, r.PreviousQuantity, r.NewQuantity, r.ReceivedBy)
	}
	return tw.Flush()
}

func (s *Session) printLines() {
	lines := s.draft.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "(sin líneas)")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CANT\tARTÍCULO\tP. UNIT\tIMPORTE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", l.Quantity, l.Name, l.Price.StringFixed(2), l.Amount().StringFixed(2))
	}
	_ = tw.Flush()
}

func (s *Session) printTotals(t domainbilling.Totals) {
	r := t.Rounded()
	fmt.Fprintf(s.out, "subtotal %s | descuento %s%% -%s | impuesto %s%% +%s | total %s\n",
		r.Subtotal.StringFixed(2), r.DiscountRate.String(), r.DiscountAmount.StringFixed(2),
		r.TaxRate.String(), r.TaxAmount.StringFixed(2), r.Total.StringFixed(2))
}

// parseRates toma hasta dos números iniciales como descuento e impuesto; el resto se devuelve.
func (s *Session) parseRates(args []string) (pos.Rates, []string) {
	r := s.rates
	vals := []*decimal.Decimal{&r.Discount, &r.Tax}
	i := 0
	for ; i < len(args) && i < len(vals); i++ {
		d, err := decimal.NewFromString(strings.TrimSuffix(args[i], "%"))
		if err != nil {
			break
		}
		*vals[i] = d
	}
	return r, args[i:]
}

func describe(err error) string {
	var se *domain.StockError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("stock insuficiente para %s (disponible %d)", nameOr(se.ItemName, se.ItemID), se.Available)
	case errors.Is(err, domain.ErrNotFound):
		return "no encontrado: " + err.Error()
	}
	return err.Error()
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
