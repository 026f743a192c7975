package purchasing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/snapshot"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

type fakeAPI struct {
	sendResult *ports.SendOrderResult
	sendErr    error
	sent       []ports.ExternalOrder
	synced     []ports.InventoryLevel
	status     *ports.ExternalOrderStatus
	pingErr    error
}

func (f *fakeAPI) SendOrder(_ context.Context, o ports.ExternalOrder) (*ports.SendOrderResult, error) {
	f.sent = append(f.sent, o)
	return f.sendResult, f.sendErr
}

func (f *fakeAPI) SyncInventory(_ context.Context, levels []ports.InventoryLevel) (*ports.SyncResult, error) {
	f.synced = levels
	return &ports.SyncResult{Success: true, Message: "ok"}, nil
}

func (f *fakeAPI) GetOrderStatus(_ context.Context, _ string) (*ports.ExternalOrderStatus, error) {
	return f.status, nil
}

func (f *fakeAPI) Ping(_ context.Context) error { return f.pingErr }

type fakePDF struct{}

func (fakePDF) GenerateOrderPDF(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF-" + o.ID), nil
}

type fixture struct {
	store *snapshot.Store
	api   *fakeAPI
	uc    *OrderUseCase
	items *inventory.ItemUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := snapshot.New(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	api := &fakeAPI{sendResult: &ports.SendOrderResult{Success: true, ExternalOrderID: "EXT-1", Message: "recibida"}}
	return &fixture{
		store: store,
		api:   api,
		items: inventory.NewItemUseCase(store),
		uc:    NewOrderUseCase(store, store, api, fakePDF{}, inventory.NewReplenishmentUseCase(store), logger.Nop()),
	}
}

func (f *fixture) createItem(t *testing.T, name string, stock, min, max int) string {
	t.Helper()
	it, err := f.items.Create(context.Background(), dto.CreateItemRequest{
		Name: name, Category: string(entity.CategoryMisc),
		CurrentStock: stock, MinStockLevel: min, MaxStockLevel: max,
	})
	require.NoError(t, err)
	return it.ID
}

func (f *fixture) createOrder(t *testing.T, itemID string) *dto.OrderResponse {
	t.Helper()
	o, err := f.uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{{ItemID: itemID, Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")}},
	})
	require.NoError(t, err)
	return o
}

func TestCreate_CalculaTotalesYUneLineas(t *testing.T) {
	f := newFixture(t)
	milk := f.createItem(t, "Leche", 5, 10, 50)
	bread := f.createItem(t, "Pan", 5, 10, 50)

	o, err := f.uc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{ItemID: milk, Quantity: 2, UnitPrice: decimal.RequireFromString("1.25")},
			{ItemID: bread, Quantity: 1, UnitPrice: decimal.RequireFromString("3")},
			{ItemID: milk, Quantity: 4, UnitPrice: decimal.RequireFromString("1.25")},
		},
		Notes: "  urgente ",
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Leche", o.Items[0].ItemName)
	assert.Equal(t, 6, o.Items[0].Quantity)
	assert.Equal(t, "7.5", o.Items[0].TotalPrice.String())
	assert.Equal(t, "10.5", o.TotalAmount.String())
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, "urgente", o.Notes)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	id := f.createItem(t, "Leche", 5, 10, 50)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateOrderRequest
		want error
	}{
		{"sin líneas", dto.CreateOrderRequest{}, domain.ErrValidation},
		{"cantidad cero", dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{ItemID: id}}}, domain.ErrValidation},
		{"precio negativo", dto.CreateOrderRequest{Items: []dto.OrderLineRequest{
			{ItemID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)},
		}}, domain.ErrValidation},
		{"precios distintos", dto.CreateOrderRequest{Items: []dto.OrderLineRequest{
			{ItemID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
			{ItemID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(2)},
		}}, domain.ErrValidation},
		{"artículo inexistente", dto.CreateOrderRequest{Items: []dto.OrderLineRequest{
			{ItemID: "nope", Quantity: 1},
		}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateFromReplenishment(t *testing.T) {
	f := newFixture(t)
	low := f.createItem(t, "Leche", 5, 10, 50)
	f.createItem(t, "Queso", 30, 10, 50)

	o, err := f.uc.CreateFromReplenishment(context.Background(), dto.CreateOrderFromReplenishmentRequest{
		Prices: map[string]decimal.Decimal{low: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, low, o.Items[0].ItemID)
	assert.Equal(t, 45, o.Items[0].Quantity)
	assert.Equal(t, "90", o.TotalAmount.String())
}

func TestCreateFromReplenishment_SinSugerencias(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Queso", 30, 10, 50)

	_, err := f.uc.CreateFromReplenishment(context.Background(), dto.CreateOrderFromReplenishmentRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSend_Exito(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, f.createItem(t, "Leche", 5, 10, 50))

	sent, err := f.uc.Send(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", sent.Status)
	assert.Equal(t, "EXT-1", sent.ExternalOrderID)

	require.Len(t, f.api.sent, 1)
	assert.Equal(t, o.ID, f.api.sent[0].OrderID)
	assert.Equal(t, "7.5", f.api.sent[0].TotalAmount.String())

	_, err = f.uc.Send(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSend_RechazoDelProveedor(t *testing.T) {
	f := newFixture(t)
	f.api.sendResult = &ports.SendOrderResult{Success: false, Message: "sin cupo"}
	o := f.createOrder(t, f.createItem(t, "Leche", 5, 10, 50))

	got, err := f.uc.Send(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, "sin cupo", got.LastMessage)
}

func TestSend_TimeoutMarcaFallidaYPermiteReintento(t *testing.T) {
	f := newFixture(t)
	f.api.sendErr = fmt.Errorf("%w: API request timed out", domain.ErrExternalTimeout)
	o := f.createOrder(t, f.createItem(t, "Leche", 5, 10, 50))

	_, err := f.uc.Send(context.Background(), o.ID)
	require.True(t, errors.Is(err, domain.ErrExternalTimeout))

	stored, err := f.uc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", stored.Status)
	assert.Contains(t, stored.LastMessage, "timed out")

	f.api.sendErr = nil
	retried, err := f.uc.Send(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", retried.Status)
}

func TestExternalStatus_ConfirmaOrdenEnviada(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, f.createItem(t, "Leche", 5, 10, 50))
	_, err := f.uc.Send(context.Background(), o.ID)
	require.NoError(t, err)

	f.api.status = &ports.ExternalOrderStatus{Status: "confirmed", Message: "en preparación"}
	st, err := f.uc.ExternalStatus(context.Background(), "EXT-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", st.Status)

	stored, err := f.uc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
}

func TestSyncInventory_EnviaTodosLosArticulos(t *testing.T) {
	f := newFixture(t)
	f.createItem(t, "Leche", 5, 10, 50)
	f.createItem(t, "Queso", 30, 10, 50)

	res, err := f.uc.SyncInventory(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.ItemsSent)
	require.Len(t, f.api.synced, 2)
	assert.Equal(t, "Leche", f.api.synced[0].ProductName)
	assert.Equal(t, 5, f.api.synced[0].StockLevel)
}

func TestTestConnection(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.uc.TestConnection(context.Background()).Success)

	f.api.pingErr = errors.New("connection refused")
	res := f.uc.TestConnection(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "connection refused", res.Message)
}

func TestList_YPDF(t *testing.T) {
	f := newFixture(t)
	id := f.createItem(t, "Leche", 5, 10, 50)
	first := f.createOrder(t, id)
	time.Sleep(2 * time.Millisecond)
	second := f.createOrder(t, id)

	list, err := f.uc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Orders[0].ID)
	assert.Equal(t, first.ID, list.Orders[1].ID)

	pdf, err := f.uc.PDF(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-"+first.ID, string(pdf))

	_, err = f.uc.PDF(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
