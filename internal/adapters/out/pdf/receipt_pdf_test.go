package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "storefront/internal/domain/order"
	udom "storefront/internal/domain/user"
)

func TestReceiptRenderer_Render(t *testing.T) {
	r := NewReceiptRenderer("")
	r.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	var items []orderdom.Item
	for i := 0; i < 40; i++ {
		items = append(items, orderdom.Item{ProductID: "p", Name: "Café table lamp", Price: 12.5})
	}
	o := orderdom.Order{
		ID:        "order-1",
		Items:     items,
		Status:    orderdom.StatusProcessing,
		Payment:   orderdom.Payment{TransactionID: "tx-1", Status: "settled", Success: true},
		CreatedAt: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
	}

	out, err := r.Render(o, udom.User{Name: "Ann", Email: "a@x.com", Address: "1 Main St"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "Storefront", r.StoreName)
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "abc", trimTo(" abc ", 5))
	assert.Equal(t, "ab...", trimTo("abcdef", 3))
}
