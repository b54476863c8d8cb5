// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/common"
	pdom "storefront/internal/domain/product"
)

// Catalog view sizes.
const (
	LatestProductsLimit  = 12
	RelatedProductsLimit = 3
	MaxBatchIDs          = 100
)

// PhotoUpload is an optional photo attached to a create/update.
type PhotoUpload struct {
	ContentType string
	Data        []byte
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  string
	Quantity    int
	Shipping    bool
	Photo       *PhotoUpload
}

// ProductUsecase coordinates the catalog and its photo store.
type ProductUsecase struct {
	repo       pdom.Repository
	categories catdom.Repository
	photos     pdom.PhotoStore
	clock      Clock
	newID      IDGenerator
}

func NewProductUsecase(repo pdom.Repository, categories catdom.Repository, photos pdom.PhotoStore) *ProductUsecase {
	return &ProductUsecase{
		repo:       repo,
		categories: categories,
		photos:     photos,
		clock:      systemClock{},
		newID:      defaultID,
	}
}

func (uc *ProductUsecase) Create(ctx context.Context, in ProductInput) (pdom.Product, error) {
	now := uc.clock.Now()
	p := pdom.Product{
		ID:          uc.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Normalize()
	if err := uc.check(ctx, p, in.Photo); err != nil {
		return pdom.Product{}, err
	}

	if in.Photo != nil {
		obj, err := uc.putPhoto(ctx, p.ID, in.Photo)
		if err != nil {
			return pdom.Product{}, err
		}
		p.PhotoObject, p.PhotoContentType = obj, in.Photo.ContentType
	}

	created, err := uc.repo.Create(ctx, p)
	if err != nil {
		uc.dropPhoto(ctx, p.PhotoObject)
		return pdom.Product{}, err
	}
	log.Printf("[product_usecase] created id=%q slug=%q photo=%t", created.ID, created.Slug, created.HasPhoto())
	return created, nil
}

func (uc *ProductUsecase) Update(ctx context.Context, id string, in ProductInput) (pdom.Product, error) {
	p, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return pdom.Product{}, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.Quantity = in.Quantity
	p.Shipping = in.Shipping
	p.UpdatedAt = uc.clock.Now()
	p.Normalize()
	if err := uc.check(ctx, p, in.Photo); err != nil {
		return pdom.Product{}, err
	}

	oldPhoto := ""
	if in.Photo != nil {
		obj, err := uc.putPhoto(ctx, p.ID, in.Photo)
		if err != nil {
			return pdom.Product{}, err
		}
		oldPhoto = p.PhotoObject
		p.PhotoObject, p.PhotoContentType = obj, in.Photo.ContentType
	}

	saved, err := uc.repo.Save(ctx, p)
	if err != nil {
		if in.Photo != nil {
			uc.dropPhoto(ctx, p.PhotoObject)
		}
		return pdom.Product{}, err
	}
	uc.dropPhoto(ctx, oldPhoto)
	return saved, nil
}

func (uc *ProductUsecase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	uc.dropPhoto(ctx, p.PhotoObject)
	return nil
}

func (uc *ProductUsecase) check(ctx context.Context, p pdom.Product, photo *PhotoUpload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if photo != nil {
		if len(photo.Data) > pdom.MaxPhotoBytes {
			return pdom.ErrPhotoTooBig
		}
		if uc.photos == nil {
			return fmt.Errorf("product_usecase: photo store not configured")
		}
	}
	if uc.categories != nil {
		if _, err := uc.categories.GetByID(ctx, p.CategoryID); err != nil {
			if errors.Is(err, catdom.ErrNotFound) {
				return pdom.ErrInvalidCat
			}
			return err
		}
	}
	return nil
}

func (uc *ProductUsecase) putPhoto(ctx context.Context, productID string, photo *PhotoUpload) (string, error) {
	obj, err := uc.photos.Put(ctx, productID, photo.ContentType, photo.Data)
	if err != nil {
		return "", fmt.Errorf("product_usecase: store photo: %w", err)
	}
	return obj, nil
}

func (uc *ProductUsecase) dropPhoto(ctx context.Context, obj string) {
	if obj == "" || uc.photos == nil {
		return
	}
	if err := uc.photos.Delete(ctx, obj); err != nil {
		log.Printf("[product_usecase] WARN photo delete failed object=%q err=%v", obj, err)
	}
}

// ------------------------------------------------------------
// Queries
// ------------------------------------------------------------

// Latest returns the newest products.
func (uc *ProductUsecase) Latest(ctx context.Context) ([]pdom.Product, error) {
	res, err := uc.repo.List(ctx, pdom.Filter{}, common.Page{Number: 1, PerPage: LatestProductsLimit})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (uc *ProductUsecase) GetBySlug(ctx context.Context, slug string) (pdom.Product, error) {
	return uc.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

// Photo returns the stored photo bytes of a product.
func (uc *ProductUsecase) Photo(ctx context.Context, id string) ([]byte, string, error) {
	p, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, "", err
	}
	if !p.HasPhoto() || uc.photos == nil {
		return nil, "", pdom.ErrNotFound
	}
	data, ct, err := uc.photos.Open(ctx, p.PhotoObject)
	if err != nil {
		return nil, "", err
	}
	if ct == "" {
		ct = p.PhotoContentType
	}
	return data, ct, nil
}

// Filter returns products in any of categoryIDs whose price is within
// priceRange ([min, max]; empty = unbounded).
func (uc *ProductUsecase) Filter(ctx context.Context, categoryIDs []string, priceRange []float64) ([]pdom.Product, error) {
	f := pdom.Filter{CategoryIDs: dedupStrings(categoryIDs)}
	switch len(priceRange) {
	case 0:
	case 2:
		lo, hi := priceRange[0], priceRange[1]
		if lo > hi {
			return nil, ErrInvalidArgument
		}
		f.MinPrice, f.MaxPrice = &lo, &hi
	default:
		return nil, ErrInvalidArgument
	}
	res, err := uc.repo.List(ctx, f, common.Page{Number: 1, PerPage: pdom.MaxPerPage})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (uc *ProductUsecase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx, pdom.Filter{})
}

// Page returns one page of the catalog, newest first.
func (uc *ProductUsecase) Page(ctx context.Context, page int) (common.PageResult[pdom.Product], error) {
	return uc.repo.List(ctx, pdom.Filter{}, common.Page{Number: page, PerPage: pdom.DefaultPerPage})
}

func (uc *ProductUsecase) Search(ctx context.Context, keyword string) ([]pdom.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrInvalidArgument
	}
	res, err := uc.repo.List(ctx, pdom.Filter{Keyword: keyword}, common.Page{Number: 1, PerPage: pdom.MaxPerPage})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Related returns other products of the same category.
func (uc *ProductUsecase) Related(ctx context.Context, productID, categoryID string) ([]pdom.Product, error) {
	productID, categoryID = strings.TrimSpace(productID), strings.TrimSpace(categoryID)
	if productID == "" || categoryID == "" {
		return nil, ErrInvalidArgument
	}
	f := pdom.Filter{CategoryIDs: []string{categoryID}, ExcludeID: productID}
	res, err := uc.repo.List(ctx, f, common.Page{Number: 1, PerPage: RelatedProductsLimit})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// ByCategory returns the category and its products.
func (uc *ProductUsecase) ByCategory(ctx context.Context, slug string) (catdom.Category, []pdom.Product, error) {
	if uc.categories == nil {
		return catdom.Category{}, nil, fmt.Errorf("product_usecase: category repository not configured")
	}
	c, err := uc.categories.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return catdom.Category{}, nil, err
	}
	res, err := uc.repo.List(ctx, pdom.Filter{CategoryIDs: []string{c.ID}}, common.Page{Number: 1, PerPage: pdom.MaxPerPage})
	if err != nil {
		return catdom.Category{}, nil, err
	}
	return c, res.Items, nil
}

// ByIDs is the cart batch lookup: unknown ids are skipped, order is not kept.
func (uc *ProductUsecase) ByIDs(ctx context.Context, ids []string) ([]pdom.Product, error) {
	ids = dedupStrings(ids)
	if len(ids) == 0 {
		return []pdom.Product{}, nil
	}
	if len(ids) > MaxBatchIDs {
		return nil, fmt.Errorf("%w: at most %d ids", ErrInvalidArgument, MaxBatchIDs)
	}
	return uc.repo.GetByIDs(ctx, ids)
}
