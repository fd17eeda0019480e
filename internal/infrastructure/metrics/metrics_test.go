package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStockAdjustments_CuentaPorMotivo(t *testing.T) {
	before := testutil.ToFloat64(StockAdjustments.WithLabelValues("SALE"))
	StockAdjustments.WithLabelValues("SALE").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(StockAdjustments.WithLabelValues("SALE")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	Receipts.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "tienda_receiving_receipts_total")
}

func TestRegistry_NoUsaElRegistroGlobal(t *testing.T) {
	Drafts.WithLabelValues("voided").Inc()
	n, err := testutil.GatherAndCount(Registry, "tienda_pos_drafts_total")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	// el mismo nombre queda libre en el registro global
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: "pos", Name: "void_line_failures_total", Help: "x"})
	assert.NoError(t, prometheus.DefaultRegisterer.Register(c))
	prometheus.DefaultRegisterer.Unregister(c)
}

func TestHandler_IncluyeColectoresDeGo(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
