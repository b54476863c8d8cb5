// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	catdom "storefront/internal/domain/category"
)

// CategoryUsecase manages product categories.
type CategoryUsecase struct {
	repo  catdom.Repository
	newID IDGenerator
}

func NewCategoryUsecase(repo catdom.Repository) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, newID: defaultID}
}

func (uc *CategoryUsecase) Create(ctx context.Context, name string) (catdom.Category, error) {
	c, err := catdom.New(name)
	if err != nil {
		return catdom.Category{}, err
	}
	if _, err := uc.repo.GetByName(ctx, c.Name); err == nil {
		return catdom.Category{}, catdom.ErrConflict
	} else if !errors.Is(err, catdom.ErrNotFound) {
		return catdom.Category{}, err
	}

	c.ID = uc.newID()
	created, err := uc.repo.Create(ctx, c)
	if err != nil {
		return catdom.Category{}, err
	}
	log.Printf("[category_usecase] created id=%q slug=%q", created.ID, created.Slug)
	return created, nil
}

func (uc *CategoryUsecase) Update(ctx context.Context, id, name string) (catdom.Category, error) {
	c, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return catdom.Category{}, err
	}
	if err := c.Rename(name); err != nil {
		return catdom.Category{}, err
	}
	return uc.repo.Save(ctx, c)
}

func (uc *CategoryUsecase) List(ctx context.Context) ([]catdom.Category, error) {
	return uc.repo.List(ctx)
}

func (uc *CategoryUsecase) GetBySlug(ctx context.Context, slug string) (catdom.Category, error) {
	return uc.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (uc *CategoryUsecase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, strings.TrimSpace(id))
}
