package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

func TestGenerateOrderPDF_DevuelvePDF(t *testing.T) {
	order := &entity.Order{
		ID:     "o-1",
		Status: entity.OrderStatusSent,
		Items: []entity.OrderItem{
			{ItemID: "i1", ItemName: "Leche entera", Quantity: 12, UnitPrice: decimal.RequireFromString("1.25")},
			{ItemID: "i2", ItemName: "Arroz", Quantity: 3, UnitPrice: decimal.RequireFromString("4")},
		},
		Notes:           "Entregar antes del lunes",
		ExternalOrderID: "EXT-9",
		CreatedAt:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	order.Recalculate()

	out, err := NewOrderPDFGenerator("Stock Tracker").GenerateOrderPDF(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0.00",
		"7.5":     "$7.50",
		"1234.5":  "$1,234.50",
		"1000000": "$1,000,000.00",
		"-25.125": "-$25.13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
