package product

// ResolvedItem is a cart id joined against the live catalog.
// When the catalog no longer holds the id only ID is set and Found is false.
type ResolvedItem struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Found       bool    `json:"-"`
}

// Placeholder returns the not-found stand-in for id.
func Placeholder(id string) ResolvedItem {
	return ResolvedItem{ID: id}
}

// Resolve joins ids against products, preserving the order (and repetitions)
// of ids. Products may arrive in any order; unknown ids become placeholders.
func Resolve(ids []string, products []Product) []ResolvedItem {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]ResolvedItem, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			out = append(out, Placeholder(id))
			continue
		}
		out = append(out, ResolvedItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Found:       true,
		})
	}
	return out
}

// UniqueIDs returns ids without repetitions, first occurrence order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
