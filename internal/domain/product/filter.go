package product

import (
	"sort"
	"strings"

	"storefront/internal/domain/common"
)

// Default page sizes of the catalog views.
const (
	DefaultPerPage = 6
	MaxPerPage     = 100
)

// Match reports whether p passes every set criterion of f.
func (f Filter) Match(p Product) bool {
	if f.ExcludeID != "" && p.ID == f.ExcludeID {
		return false
	}
	if len(f.CategoryIDs) > 0 {
		hit := false
		for _, c := range f.CategoryIDs {
			if c == p.CategoryID {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			return false
		}
	}
	return true
}

// SortNewestFirst orders by CreatedAt descending, ID as tie-break.
func SortNewestFirst(ps []Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

// Paginate filters, sorts newest first and cuts one page out of all.
// Stores that cannot express Filter natively finish the query with it.
func Paginate(all []Product, f Filter, page common.Page) common.PageResult[Product] {
	matched := make([]Product, 0, len(all))
	for _, p := range all {
		if f.Match(p) {
			matched = append(matched, p)
		}
	}
	SortNewestFirst(matched)

	number, per, offset := common.NormalizePage(page.Number, page.PerPage, DefaultPerPage, MaxPerPage)
	items := []Product{}
	if offset < len(matched) {
		end := offset + per
		if end > len(matched) {
			end = len(matched)
		}
		items = matched[offset:end]
	}
	return common.PageResult[Product]{
		Items:      items,
		TotalCount: len(matched),
		TotalPages: common.ComputeTotalPages(len(matched), per),
		Page:       number,
		PerPage:    per,
	}
}
