package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o, err := New("o1", "u1", []Item{{ProductID: "p1", Price: 100}, {ProductID: "p2", Price: 200.1}}, Payment{Success: true}, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, o.ProductIDs)
	assert.Equal(t, StatusNotProcess, o.Status)
	assert.Equal(t, int64(30010), o.TotalCents())

	_, err = New("o2", "", []Item{{ProductID: "p1"}}, Payment{}, now)
	assert.ErrorIs(t, err, ErrInvalidBuyer)

	_, err = New("o3", "u1", nil, Payment{}, now)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSetStatus(t *testing.T) {
	o := Order{Status: StatusNotProcess}
	later := time.Now()
	require.NoError(t, o.SetStatus(StatusShipped, later))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, later, o.UpdatedAt)

	assert.ErrorIs(t, o.SetStatus("lost", later), ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("deliverd")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)
}
