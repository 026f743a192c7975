package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/purchasing"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/externalapi"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/fallback"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/snapshot"
	apphttp "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// newTestServer arma la aplicación completa sobre un snapshot temporal y un
// proveedor externo simulado con httptest.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	m := metrics.New()

	snap, err := snapshot.New(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	store := fallback.New(nil, snap, 0, log, m)

	supplier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders":
			_, _ = w.Write([]byte(`{"success":true,"orderId":"EXT-42","message":"recibida"}`))
		case "/health":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(supplier.Close)
	api := externalapi.NewClient(config.ExternalAPIConfig{BaseURL: supplier.URL, Timeout: time.Second}, log, m)

	users, err := memory.NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	items := inventory.NewItemUseCase(store)
	replenishment := inventory.NewReplenishmentUseCase(store)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ItemUC:          items,
		ReportUC:        inventory.NewReportUseCase(store, store, items, log, m),
		ReplenishmentUC: replenishment,
		OrderUC:         purchasing.NewOrderUseCase(store, store, api, pdf.NewOrderPDFGenerator("Stock Tracker"), replenishment, log),
		DashboardUC:     appanalytics.NewDashboardUseCase(store, store, store),
		Health:          store,
		Metrics:         m,
		JWTSecret:       testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": memory.DemoPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	app := newTestServer(t)
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "UNAUTHORIZED")

	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestMe_DevuelveUsuarioDelToken(t *testing.T) {
	app := newTestServer(t)
	resp, body := call(t, app, http.MethodGet, "/api/auth/me", login(t, app, "bart"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode(t, body)
	assert.Equal(t, "bart", me["username"])
	assert.Equal(t, "user", me["role"])
}

func TestFlujoReporteDeUsuarioYAplicacionPorAdmin(t *testing.T) {
	app := newTestServer(t)
	admin := login(t, app, "admin")
	bart := login(t, app, "bart")

	// Solo admin crea artículos.
	newItem := map[string]any{"name": "Leche", "category": "Dairy", "current_stock": 5, "min_stock_level": 10, "max_stock_level": 50}
	resp, _ := call(t, app, http.MethodPost, "/api/items", bart, newItem)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/items", admin, newItem)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	item := decode(t, body)
	itemID := item["id"].(string)
	assert.Equal(t, true, item["needs_reorder"])

	// El usuario reporta el artículo agotado: queda pendiente y el stock no cambia.
	resp, body = call(t, app, http.MethodPost, "/api/reports", bart, map[string]any{"item_id": itemID, "reported_stock": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	report := decode(t, body)
	assert.Equal(t, "pending", report["status"])
	assert.Equal(t, "out_of_stock", report["report_type"])
	assert.Equal(t, "Bart", report["user_name"])
	reportID := report["id"].(string)

	resp, body = call(t, app, http.MethodGet, "/api/items/"+itemID, bart, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 5, decode(t, body)["current_stock"])

	// El usuario no puede aplicar; el admin sí.
	resp, _ = call(t, app, http.MethodPost, "/api/reports/"+reportID+"/apply", bart, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/reports/"+reportID+"/apply", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	applied := decode(t, body)
	assert.Equal(t, "applied", applied["report"].(map[string]any)["status"])
	assert.EqualValues(t, 0, applied["item"].(map[string]any)["current_stock"])

	// Un estado aplicado no retrocede.
	resp, body = call(t, app, http.MethodPatch, "/api/reports/"+reportID+"/status", admin, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_TRANSITION")

	resp, body = call(t, app, http.MethodGet, "/api/dashboard", bart, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode(t, body)
	assert.EqualValues(t, 1, dash["out_of_stock"])
	assert.EqualValues(t, 1, dash["my_applied_reports"])
}

func TestItems_ErroresHTTP(t *testing.T) {
	app := newTestServer(t)
	admin := login(t, app, "admin")

	resp, body := call(t, app, http.MethodPost, "/api/items", admin, map[string]any{"category": "Dairy", "max_stock_level": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, body = call(t, app, http.MethodPost, "/api/items", admin, map[string]any{"name": "x", "category": "Dairy", "min_stock_level": 9, "max_stock_level": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodGet, "/api/items/nope", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")

	resp, _ = call(t, app, http.MethodGet, "/api/items?sort=random", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrdenes_CrearEnviarYPDF(t *testing.T) {
	app := newTestServer(t)
	admin := login(t, app, "admin")

	resp, body := call(t, app, http.MethodPost, "/api/items", admin,
		map[string]any{"name": "Pan", "category": "Pantry", "current_stock": 2, "min_stock_level": 4, "max_stock_level": 20})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPost, "/api/orders/from-replenishment", admin, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	order := decode(t, body)
	orderID := order["id"].(string)
	assert.Equal(t, "pending", order["status"])

	resp, body = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/send", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	sent := decode(t, body)
	assert.Equal(t, "sent", sent["status"])
	assert.Equal(t, "EXT-42", sent["external_order_id"])

	resp, _ = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/send", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/orders/"+orderID+"/pdf", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = call(t, app, http.MethodGet, "/api/orders/external/health", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, body)["success"])

	resp, _ = call(t, app, http.MethodGet, "/api/orders", login(t, app, "mae"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealthYMetrics(t *testing.T) {
	app := newTestServer(t)

	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Sin almacenamiento principal el servicio arranca degradado.
	assert.Equal(t, true, decode(t, body)["store_degraded"])

	resp, body = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "stock_tracker_http_requests_total")
}
