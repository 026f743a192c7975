package externalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ExternalOrderAPI.
var _ ports.ExternalOrderAPI = (*Client)(nil)

const (
	breakerName        = "external_orders_api"
	maxResponseBytes   = 64 * 1024
	breakerMaxFailures = 5
)

// Client adaptador HTTP de la API de pedidos del proveedor.
// Cada llamada tiene su propio timeout y pasa por un circuit breaker: tras varios
// fallos consecutivos las llamadas se rechazan sin tocar la red hasta que expire el periodo de espera.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewClient construye el adaptador con la configuración de EXTERNAL_API_*.
func NewClient(cfg config.ExternalAPIConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout + time.Second},
		log:        log.Component("external_api"),
		metrics:    m,
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
			c.metrics.SetCircuitBreakerState(name, int(to))
		},
	})
	c.metrics.SetCircuitBreakerState(breakerName, int(gobreaker.StateClosed))
	return c
}

// ── Protocolo ────────────────────────────────────────────────────────────────

type orderLinePayload struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type orderPayload struct {
	OrderID     string             `json:"orderId"`
	Items       []orderLinePayload `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
	Timestamp   time.Time          `json:"timestamp"`
	Notes       string             `json:"notes,omitempty"`
}

type orderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type syncPayload struct {
	Timestamp time.Time              `json:"timestamp"`
	Items     []ports.InventoryLevel `json:"items"`
}

// ── Implementación del puerto ────────────────────────────────────────────────

func (c *Client) SendOrder(ctx context.Context, order ports.ExternalOrder) (*ports.SendOrderResult, error) {
	payload := orderPayload{
		OrderID:     order.OrderID,
		Items:       make([]orderLinePayload, 0, len(order.Items)),
		TotalAmount: order.TotalAmount.InexactFloat64(),
		Timestamp:   order.Timestamp.UTC(),
		Notes:       order.Notes,
	}
	for _, l := range order.Items {
		payload.Items = append(payload.Items, orderLinePayload{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			TotalPrice:  l.TotalPrice.InexactFloat64(),
		})
	}
	var resp orderResponse
	if err := c.call(ctx, "send_order", http.MethodPost, "/orders", payload, &resp); err != nil {
		return nil, err
	}
	return &ports.SendOrderResult{Success: resp.Success, ExternalOrderID: resp.OrderID, Message: resp.Message}, nil
}

func (c *Client) SyncInventory(ctx context.Context, levels []ports.InventoryLevel) (*ports.SyncResult, error) {
	if levels == nil {
		levels = []ports.InventoryLevel{}
	}
	var resp ports.SyncResult
	if err := c.call(ctx, "sync_inventory", http.MethodPost, "/inventory/sync",
		syncPayload{Timestamp: time.Now().UTC(), Items: levels}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrderStatus(ctx context.Context, externalOrderID string) (*ports.ExternalOrderStatus, error) {
	var resp ports.ExternalOrderStatus
	path := "/orders/" + url.PathEscape(externalOrderID) + "/status"
	if err := c.call(ctx, "order_status", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// call ejecuta la petición dentro del circuit breaker y traduce los errores a los del dominio.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, method, path, in, out)
	})
	switch {
	case err == nil:
		c.metrics.RecordExternalCall(op, "ok", time.Since(start))
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.RecordExternalCall(op, "rejected", time.Since(start))
		return fmt.Errorf("%w: circuit breaker abierto para %s", domain.ErrExternalAPI, breakerName)
	case errors.Is(err, domain.ErrExternalTimeout):
		c.metrics.RecordExternalCall(op, "timeout", time.Since(start))
	default:
		c.metrics.RecordExternalCall(op, "error", time.Since(start))
	}
	c.log.Warn().Err(err).Str("op", op).Str("path", path).Msg("llamada a API externa fallida")
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: serializar request: %v", domain.ErrExternalAPI, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: crear HTTP request: %v", domain.ErrExternalAPI, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) && ctx.Err() == nil {
			return fmt.Errorf("%w: API request timed out", domain.ErrExternalTimeout)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w: cancelación: %v", domain.ErrExternalAPI, ctx.Err())
		}
		return fmt.Errorf("%w: llamada HTTP fallida: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: API request timed out", domain.ErrExternalTimeout)
		}
		return fmt.Errorf("%w: leer respuesta: %v", domain.ErrExternalAPI, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: API request failed: %d %s", domain.ErrExternalAPI, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: respuesta no es JSON válido: %v", domain.ErrExternalAPI, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
