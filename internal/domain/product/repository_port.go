// internal/domain/product/repository_port.go
package product

import (
	"context"

	"storefront/internal/domain/common"
)

// Filter narrows List/Count.
type Filter struct {
	CategoryIDs []string // any-of
	MinPrice    *float64
	MaxPrice    *float64
	Keyword     string // case-insensitive match on name or description
	ExcludeID   string
}

// Repository is the persistence port for the catalog.
type Repository interface {
	GetByID(ctx context.Context, id string) (Product, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)

	// GetByIDs returns the products that exist among ids, in no particular order.
	// Unknown ids are skipped, not reported as errors.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)

	// List returns products newest first.
	List(ctx context.Context, f Filter, page common.Page) (common.PageResult[Product], error)
	Count(ctx context.Context, f Filter) (int, error)

	Create(ctx context.Context, p Product) (Product, error)
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}

// PhotoStore keeps product photo bytes outside the document store.
type PhotoStore interface {
	Put(ctx context.Context, productID, contentType string, data []byte) (objectPath string, err error)
	Open(ctx context.Context, objectPath string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, objectPath string) error
}
