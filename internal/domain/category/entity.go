// internal/domain/category/entity.go
package category

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/common"
)

var (
	ErrNotFound    = errors.New("category: not found")
	ErrConflict    = errors.New("category: already exists")
	ErrInvalidName = errors.New("category: name is required")
)

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// New builds a category from a display name.
func New(name string) (Category, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return Category{}, ErrInvalidName
	}
	return Category{Name: n, Slug: common.Slugify(n)}, nil
}

// Rename changes the name and slug together.
func (c *Category) Rename(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return ErrInvalidName
	}
	c.Name = n
	c.Slug = common.Slugify(n)
	return nil
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)
	GetByName(ctx context.Context, name string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Save(ctx context.Context, c Category) (Category, error)
	Delete(ctx context.Context, id string) error
}
