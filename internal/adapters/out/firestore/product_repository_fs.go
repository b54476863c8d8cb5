// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"storefront/internal/domain/common"
	pdom "storefront/internal/domain/product"
)

// Firestore caps "in" filters at 30 values.
const maxInValues = 30

// ProductRepositoryFS implements product.Repository.
//
// Collection design:
// - collection: products
// - docId: product.ID
// - category filter runs in Firestore; price range, keyword and exclusion are
//   applied in memory (no composite indexes required).
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

type productDoc struct {
	Name             string    `firestore:"name"`
	Slug             string    `firestore:"slug"`
	Description      string    `firestore:"description"`
	Price            float64   `firestore:"price"`
	CategoryID       string    `firestore:"category"`
	Quantity         int       `firestore:"quantity"`
	Shipping         bool      `firestore:"shipping"`
	PhotoObject      string    `firestore:"photoObject"`
	PhotoContentType string    `firestore:"photoContentType"`
	CreatedAt        time.Time `firestore:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt"`
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (pdom.Product, error) {
	if r == nil || r.Client == nil {
		return pdom.Product{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pdom.Product{}, pdom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return pdom.Product{}, pdom.ErrNotFound
	}
	if err != nil {
		return pdom.Product{}, err
	}
	return docToProduct(snap)
}

func (r *ProductRepositoryFS) GetBySlug(ctx context.Context, slug string) (pdom.Product, error) {
	if r == nil || r.Client == nil {
		return pdom.Product{}, errNilClient
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return pdom.Product{}, pdom.ErrNotFound
	}
	snap, err := firstDoc(r.col().Where("slug", "==", slug).Limit(1).Documents(ctx))
	if err != nil {
		return pdom.Product{}, err
	}
	if snap == nil {
		return pdom.Product{}, pdom.ErrNotFound
	}
	return docToProduct(snap)
}

// GetByIDs fetches all ids in one batched read; missing documents are skipped.
func (r *ProductRepositoryFS) GetByIDs(ctx context.Context, ids []string) ([]pdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	ids = uniqueNonEmpty(ids)
	if len(ids) == 0 {
		return []pdom.Product{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.col().Doc(id))
	}
	snaps, err := r.Client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make([]pdom.Product, 0, len(snaps))
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		p, err := docToProduct(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepositoryFS) List(ctx context.Context, f pdom.Filter, page common.Page) (common.PageResult[pdom.Product], error) {
	all, err := r.candidates(ctx, f)
	if err != nil {
		return common.PageResult[pdom.Product]{}, err
	}
	return pdom.Paginate(all, f, page), nil
}

func (r *ProductRepositoryFS) Count(ctx context.Context, f pdom.Filter) (int, error) {
	all, err := r.candidates(ctx, f)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range all {
		if f.Match(p) {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepositoryFS) candidates(ctx context.Context, f pdom.Filter) ([]pdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	q := r.col().Query
	cats := uniqueNonEmpty(f.CategoryIDs)
	switch {
	case len(cats) == 1:
		q = q.Where("category", "==", cats[0])
	case len(cats) > 1 && len(cats) <= maxInValues:
		q = q.Where("category", "in", cats)
	}
	return collect(q.Documents(ctx), docToProduct)
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p pdom.Product) (pdom.Product, error) {
	if r == nil || r.Client == nil {
		return pdom.Product{}, errNilClient
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	ref := docRef(r.col(), p.ID)
	p.ID = ref.ID

	if _, err := ref.Create(ctx, productToDoc(p)); err != nil {
		if isAlreadyExists(err) {
			return pdom.Product{}, pdom.ErrConflict
		}
		return pdom.Product{}, err
	}
	return p, nil
}

// Save overwrites the whole document; the product must exist.
func (r *ProductRepositoryFS) Save(ctx context.Context, p pdom.Product) (pdom.Product, error) {
	if r == nil || r.Client == nil {
		return pdom.Product{}, errNilClient
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return pdom.Product{}, pdom.ErrNotFound
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	ref := r.col().Doc(id)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, productToDoc(p))
	})
	if isNotFound(err) {
		return pdom.Product{}, pdom.ErrNotFound
	}
	if err != nil {
		return pdom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pdom.ErrNotFound
	}
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return pdom.ErrNotFound
	}
	return err
}

func productToDoc(p pdom.Product) productDoc {
	return productDoc{
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		Price:            p.Price,
		CategoryID:       p.CategoryID,
		Quantity:         p.Quantity,
		Shipping:         p.Shipping,
		PhotoObject:      p.PhotoObject,
		PhotoContentType: p.PhotoContentType,
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}

func docToProduct(snap *firestore.DocumentSnapshot) (pdom.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return pdom.Product{}, err
	}
	return pdom.Product{
		ID:               snap.Ref.ID,
		Name:             d.Name,
		Slug:             d.Slug,
		Description:      d.Description,
		Price:            d.Price,
		CategoryID:       d.CategoryID,
		Quantity:         d.Quantity,
		Shipping:         d.Shipping,
		PhotoObject:      d.PhotoObject,
		PhotoContentType: d.PhotoContentType,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}
