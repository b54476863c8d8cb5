// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"

	catdom "storefront/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository.
// Collection "categories"; the slug doubles as the uniqueness key.
type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

type categoryDoc struct {
	Name string `firestore:"name"`
	Slug string `firestore:"slug"`
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.Category{}, catdom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return catdom.Category{}, catdom.ErrNotFound
	}
	if err != nil {
		return catdom.Category{}, err
	}
	return docToCategory(snap)
}

func (r *CategoryRepositoryFS) GetBySlug(ctx context.Context, slug string) (catdom.Category, error) {
	return r.getBy(ctx, "slug", strings.TrimSpace(slug))
}

func (r *CategoryRepositoryFS) GetByName(ctx context.Context, name string) (catdom.Category, error) {
	return r.getBy(ctx, "name", strings.TrimSpace(name))
}

func (r *CategoryRepositoryFS) getBy(ctx context.Context, field, value string) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errNilClient
	}
	if value == "" {
		return catdom.Category{}, catdom.ErrNotFound
	}
	snap, err := firstDoc(r.col().Where(field, "==", value).Limit(1).Documents(ctx))
	if err != nil {
		return catdom.Category{}, err
	}
	if snap == nil {
		return catdom.Category{}, catdom.ErrNotFound
	}
	return docToCategory(snap)
}

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]catdom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	out, err := collect(r.col().Documents(ctx), docToCategory)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepositoryFS) Create(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errNilClient
	}
	ref := docRef(r.col(), c.ID)
	c.ID = ref.ID

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := firstDoc(tx.Documents(r.col().Where("slug", "==", c.Slug).Limit(1)))
		if err != nil {
			return err
		}
		if snap != nil {
			return catdom.ErrConflict
		}
		return tx.Create(ref, categoryDoc{Name: c.Name, Slug: c.Slug})
	})
	if isAlreadyExists(err) {
		return catdom.Category{}, catdom.ErrConflict
	}
	if err != nil {
		return catdom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Save(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errNilClient
	}
	ref := r.col().Doc(strings.TrimSpace(c.ID))

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		snap, err := firstDoc(tx.Documents(r.col().Where("slug", "==", c.Slug).Limit(2)))
		if err != nil {
			return err
		}
		if snap != nil && snap.Ref.ID != c.ID {
			return catdom.ErrConflict
		}
		return tx.Set(ref, categoryDoc{Name: c.Name, Slug: c.Slug})
	})
	if isNotFound(err) {
		return catdom.Category{}, catdom.ErrNotFound
	}
	if err != nil {
		return catdom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return catdom.ErrNotFound
	}
	ref := r.col().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return catdom.ErrNotFound
		}
		return err
	}
	_, err := ref.Delete(ctx)
	return err
}

func docToCategory(snap *firestore.DocumentSnapshot) (catdom.Category, error) {
	var d categoryDoc
	if err := snap.DataTo(&d); err != nil {
		return catdom.Category{}, err
	}
	return catdom.Category{ID: snap.Ref.ID, Name: d.Name, Slug: d.Slug}, nil
}
