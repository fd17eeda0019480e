package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/billing"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/application/receiving"
	"github.com/jhoicas/tienda-pos/internal/application/stock"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-pos/pkg/jwt"
)

type testServer struct {
	app *fiber.App
	st  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Items().Create(ctx, &entity.Item{ID: "it-1", Name: "Aceite", SKU: "SKU123", Category: "Despensa", Quantity: 10, Price: decimal.RequireFromString("10")}))
	require.NoError(t, st.Items().Create(ctx, &entity.Item{ID: "it-2", Name: "Arroz", SKU: "ARZ", Quantity: 1, Price: decimal.NewFromInt(5)}))

	stockUC := stock.NewUseCase(st, st.Adjustments(), nil)
	billingUC := billing.NewUseCase(st, st.Invoices(), nil, billing.ShopInfo{}, nil)
	coord := pos.NewCoordinator(pos.LocalItems{Items: st.Items()}, pos.LocalStock{Stock: stockUC}, pos.LocalInvoices{Billing: billingUC}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 10, Issuer: testIssuer}),
		UserUC:    usecase.NewUserUseCase(st.Users(), nil),
		Catalog:   catalog.NewUseCase(st, st.Items(), nil),
		Stock:     stockUC,
		Receiving: receiving.NewUseCase(st, st.Receipts(), nil),
		Billing:   billingUC,
		Sessions:  pos.NewSessionStore(coord),
		JWTSecret: testJWTSecret,
		AppName:   "tienda-test",
	})
	return &testServer{app: app, st: st}
}

func (s *testServer) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	authHeader := ""
	if role != "" {
		authHeader = tokenForRole(t, role)
	}
	return s.doAuth(t, method, path, authHeader, body)
}

func (s *testServer) doAuth(t *testing.T, method, path, authHeader string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

// ──────────────────────────────────────────────────────────────────────────────
// Salud y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	resp, body = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestLogin_YRutasProtegidas(t *testing.T) {
	s := newTestServer(t)
	_, err := usecase.NewUserUseCase(s.st.Users(), nil).EnsureDefaultAdmin(context.Background())
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.Role)

	resp, _ = s.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsers_SoloAdmin(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, http.MethodGet, "/api/users", "saler", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/users", "admin", dto.CreateUserRequest{Username: "ana", Password: "x", Role: "saler"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "passwordHash")

	resp, _ = s.do(t, http.MethodPost, "/api/users", "admin", dto.CreateUserRequest{Username: "ana", Password: "y"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_InsuficienteDevuelve409ConDisponible(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/items/it-1/adjust_stock", "saler", dto.AdjustStockRequest{Delta: -4, ChangedBy: "caja1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var it dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &it))
	assert.Equal(t, 6, it.Quantity)

	resp, body = s.do(t, http.MethodPost, "/api/items/it-1/adjust_stock", "saler", dto.AdjustStockRequest{Delta: -7})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	require.NotNil(t, e.Available)
	assert.Equal(t, 6, *e.Available)

	resp, body = s.do(t, http.MethodGet, "/api/items/it-1/adjustments", "saler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adj []dto.StockAdjustmentResponse
	require.NoError(t, json.Unmarshal(body, &adj))
	require.Len(t, adj, 1)
	assert.Equal(t, "MANUAL", adj[0].Reason)
	assert.Equal(t, "caja1", adj[0].Actor)

	resp, _ = s.do(t, http.MethodPost, "/api/items/nope/adjust_stock", "saler", dto.AdjustStockRequest{Delta: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_BuscarPorSKUYCrear(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodGet, "/api/items?sku=SKU123", "saler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "it-1", list[0].ID)

	resp, body = s.do(t, http.MethodPost, "/api/items", "saler", map[string]any{"name": "Café", "quantity": 3, "price": 7.5, "sku": "CAF"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 3, created.Quantity)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("7.5")))

	resp, _ = s.do(t, http.MethodPost, "/api/items", "saler", map[string]any{"name": "Otro", "sku": "CAF"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = s.do(t, http.MethodPost, "/api/items", "saler", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceipts_CrearYListar(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodPost, "/api/receipts", "saler", dto.CreateReceiptRequest{ItemID: "it-1", Quantity: 5, ReceivedBy: "bodega"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.ReceiveResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 15, out.UpdatedItem.Quantity)
	assert.Equal(t, 10, out.Receipt.PreviousQuantity)
	assert.Equal(t, 15, out.Receipt.NewQuantity)

	resp, body = s.do(t, http.MethodGet, "/api/receipts", "saler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ReceiptResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas y POS
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoices_CrearConStockYTotales(t *testing.T) {
	s := newTestServer(t)
	req := map[string]any{
		"number":           "INV-1",
		"discountRate":     10,
		"taxRate":          8,
		"applyStockChange": true,
		"lines": []map[string]any{
			{"itemId": "it-1", "name": "Aceite", "price": 10, "quantity": 2},
			{"itemId": "it-2", "name": "Arroz", "price": 5, "quantity": 1},
		},
	}
	resp, body := s.do(t, http.MethodPost, "/api/invoices", "saler", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.True(t, inv.Totals.Total.Equal(decimal.RequireFromString("24.3")), inv.Totals.Total.String())

	it, err := s.st.Items().GetByID(context.Background(), "it-2")
	require.NoError(t, err)
	assert.Equal(t, 0, it.Quantity)

	resp, _ = s.do(t, http.MethodPost, "/api/invoices", "saler", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	req["number"] = "INV-2"
	resp, body = s.do(t, http.MethodPost, "/api/invoices", "saler", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")
}

func TestPOSDrafts_FlujoCompleto(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodPost, "/api/pos/drafts", "saler", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var d dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "EMPTY", d.State)
	base := "/api/pos/drafts/" + d.ID

	resp, body = s.do(t, http.MethodPost, base+"/lines", "saler", dto.AddLineRequest{Code: "SKU123", Quantity: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "BUILDING", d.State)
	assert.True(t, d.Subtotal.Equal(decimal.NewFromInt(30)))

	resp, _ = s.do(t, http.MethodPost, base+"/lines", "saler", dto.AddLineRequest{Code: "ARZ", Quantity: 2})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, base+"/commit", "saler", dto.CommitDraftRequest{CustomerName: "Ana"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "COMMITTED", d.State)
	require.NotNil(t, d.Invoice)
	assert.Equal(t, "Ana", d.Invoice.CustomerName)

	it, err := s.st.Items().GetByID(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, 7, it.Quantity)

	resp, _ = s.do(t, http.MethodPost, base+"/void", "saler", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/api/pos/drafts/nope", "saler", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPOSDrafts_AnularRestaura(t *testing.T) {
	s := newTestServer(t)
	_, body := s.do(t, http.MethodPost, "/api/pos/drafts", "saler", nil)
	var d dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &d))
	base := "/api/pos/drafts/" + d.ID

	resp, _ := s.do(t, http.MethodPost, base+"/lines", "saler", dto.AddLineRequest{Code: "it-1", Quantity: 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, base+"/void", "saler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var v dto.VoidResponse
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Len(t, v.Restored, 1)
	assert.Empty(t, v.Failed)
	assert.Equal(t, "VOIDED", v.Draft.State)

	it, err := s.st.Items().GetByID(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, 10, it.Quantity)
}

func TestPOSDrafts_EliminarSoloTerminados(t *testing.T) {
	s := newTestServer(t)
	_, body := s.do(t, http.MethodPost, "/api/pos/drafts", "saler", nil)
	var d dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &d))
	base := "/api/pos/drafts/" + d.ID

	resp, _ := s.do(t, http.MethodPost, base+"/lines", "saler", dto.AddLineRequest{Code: "SKU123", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// en curso: tiene stock descontado
	resp, _ = s.do(t, http.MethodDelete, base, "saler", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, base+"/commit", "saler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, base, "saler", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, base, "saler", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = s.do(t, http.MethodDelete, base, "saler", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPOSDrafts_OtroCajeroNoPuedeUsarlo(t *testing.T) {
	s := newTestServer(t)
	_, body := s.do(t, http.MethodPost, "/api/pos/drafts", "saler", nil)
	var d dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, testUsername, d.Actor)
	base := "/api/pos/drafts/" + d.ID

	tok, err := pkgjwt.Generate(testJWTSecret, "00000000-0000-0000-0000-000000000002", "caja2", "saler", testIssuer, testExpMin)
	require.NoError(t, err)
	other := "Bearer " + tok

	resp, _ := s.doAuth(t, http.MethodPost, base+"/lines", other, dto.AddLineRequest{Code: "SKU123", Quantity: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = s.doAuth(t, http.MethodPost, base+"/void", other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = s.doAuth(t, http.MethodDelete, base, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	it, err := s.st.Items().GetByID(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, 10, it.Quantity)

	// un admin sí puede
	tok, err = pkgjwt.Generate(testJWTSecret, "00000000-0000-0000-0000-000000000003", "jefa", "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	resp, _ = s.doAuth(t, http.MethodGet, base, "Bearer "+tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
