package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tienda"

// Registry registro propio del servicio; incluye los colectores de Go y del proceso.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

var factory = promauto.With(Registry)

var (
	// StockAdjustments ajustes aplicados por motivo.
	StockAdjustments = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stock",
		Name:      "adjustments_total",
		Help:      "Ajustes de cantidad aplicados, por motivo.",
	}, []string{"reason"})

	// StockUnits unidades movidas (valor absoluto del delta) por motivo.
	StockUnits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stock",
		Name:      "units_total",
		Help:      "Unidades movidas por ajustes, por motivo.",
	}, []string{"reason"})

	// StockRejections ajustes rechazados por stock insuficiente.
	StockRejections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stock",
		Name:      "rejections_total",
		Help:      "Ajustes rechazados porque la cantidad quedaría negativa.",
	}, []string{"reason"})

	// Receipts recepciones registradas.
	Receipts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "receiving",
		Name:      "receipts_total",
		Help:      "Recepciones de mercancía registradas.",
	})

	// Invoices facturas creadas; stock_applied indica si la creación descontó stock.
	Invoices = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "invoices_total",
		Help:      "Facturas persistidas.",
	}, []string{"stock_applied"})

	// Drafts transiciones terminales de borradores POS (committed, voided).
	Drafts = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pos",
		Name:      "drafts_total",
		Help:      "Borradores POS cerrados, por estado final.",
	}, []string{"state"})

	// VoidFailures líneas que no pudieron restaurarse al anular.
	VoidFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pos",
		Name:      "void_line_failures_total",
		Help:      "Líneas cuya devolución de stock falló durante una anulación.",
	})
)

// Handler expone Registry en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
