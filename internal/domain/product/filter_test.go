package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/common"
)

func fptr(v float64) *float64 { return &v }

func TestFilter_Match(t *testing.T) {
	p := Product{ID: "p1", Name: "Red Shirt", Description: "cotton", Price: 19.99, CategoryID: "c1"}

	assert.True(t, Filter{}.Match(p))
	assert.True(t, Filter{CategoryIDs: []string{"c2", "c1"}}.Match(p))
	assert.False(t, Filter{CategoryIDs: []string{"c2"}}.Match(p))
	assert.True(t, Filter{MinPrice: fptr(0), MaxPrice: fptr(19.99)}.Match(p))
	assert.False(t, Filter{MinPrice: fptr(20)}.Match(p))
	assert.True(t, Filter{Keyword: "SHIRT"}.Match(p))
	assert.True(t, Filter{Keyword: "Cott"}.Match(p))
	assert.False(t, Filter{Keyword: "wool"}.Match(p))
	assert.False(t, Filter{ExcludeID: "p1"}.Match(p))
}

func TestPaginate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var all []Product
	for i := 0; i < 8; i++ {
		all = append(all, Product{ID: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	first := Paginate(all, Filter{}, common.Page{Number: 1})
	assert.Equal(t, 8, first.TotalCount)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, DefaultPerPage, first.PerPage)
	assert.Len(t, first.Items, 6)
	assert.Equal(t, "h", first.Items[0].ID, "newest first")

	second := Paginate(all, Filter{}, common.Page{Number: 2})
	assert.Len(t, second.Items, 2)
	assert.Equal(t, "a", second.Items[1].ID)

	beyond := Paginate(all, Filter{}, common.Page{Number: 9})
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
}
