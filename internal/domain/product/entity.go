// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/common"
)

var (
	ErrNotFound     = errors.New("product: not found")
	ErrConflict     = errors.New("product: conflict")
	ErrInvalidName  = errors.New("product: invalid name")
	ErrInvalidDesc  = errors.New("product: invalid description")
	ErrInvalidPrice = errors.New("product: invalid price")
	ErrInvalidCat   = errors.New("product: invalid category")
	ErrInvalidQty   = errors.New("product: invalid quantity")
	ErrPhotoTooBig  = errors.New("product: photo should be less than 1mb")
)

// MaxPhotoBytes is the upload limit for a product photo.
const MaxPhotoBytes = 1 << 20

// Product is a catalog entry.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Shipping    bool    `json:"shipping"`

	// PhotoObject is the object path inside the photo bucket ("" = no photo).
	PhotoObject      string `json:"-"`
	PhotoContentType string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPhoto reports whether a photo object is attached.
func (p Product) HasPhoto() bool {
	return strings.TrimSpace(p.PhotoObject) != ""
}

// PriceCents returns the price in integer cents.
func (p Product) PriceCents() int64 {
	return common.ToCents(p.Price)
}

// Normalize trims fields and (re)derives the slug from the name.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.CategoryID = strings.TrimSpace(p.CategoryID)
	p.Slug = common.Slugify(p.Name)
}

// Validate checks the fields required by create/update.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return ErrInvalidName
	case strings.TrimSpace(p.Description) == "":
		return ErrInvalidDesc
	case p.Price < 0:
		return ErrInvalidPrice
	case strings.TrimSpace(p.CategoryID) == "":
		return ErrInvalidCat
	case p.Quantity < 0:
		return ErrInvalidQty
	}
	return nil
}
