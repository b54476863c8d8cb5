// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	odom "storefront/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository.
//
// Collection design:
// - collection: orders
// - docId: order.ID
// - items and payment are embedded snapshots (no join on read).
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

type orderDoc struct {
	ProductIDs []string       `firestore:"products"`
	Items      []orderItemDoc `firestore:"items"`
	Payment    paymentDoc     `firestore:"payment"`
	BuyerID    string         `firestore:"buyer"`
	Status     string         `firestore:"status"`
	CreatedAt  time.Time      `firestore:"createdAt"`
	UpdatedAt  time.Time      `firestore:"updatedAt"`
}

type orderItemDoc struct {
	ProductID   string  `firestore:"productId"`
	Name        string  `firestore:"name"`
	Description string  `firestore:"description"`
	Price       float64 `firestore:"price"`
}

type paymentDoc struct {
	TransactionID string  `firestore:"transactionId"`
	Amount        float64 `firestore:"amount"`
	Status        string  `firestore:"status"`
	Success       bool    `firestore:"success"`
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (odom.Order, error) {
	if r == nil || r.Client == nil {
		return odom.Order{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return odom.Order{}, odom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return odom.Order{}, odom.ErrNotFound
	}
	if err != nil {
		return odom.Order{}, err
	}
	return docToOrder(snap)
}

// ListByBuyer sorts in memory so only the single-field index on buyer is needed.
func (r *OrderRepositoryFS) ListByBuyer(ctx context.Context, buyerID string) ([]odom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	buyerID = strings.TrimSpace(buyerID)
	if buyerID == "" {
		return []odom.Order{}, nil
	}
	out, err := collect(r.col().Where("buyer", "==", buyerID).Documents(ctx), docToOrder)
	if err != nil {
		return nil, err
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *OrderRepositoryFS) ListAll(ctx context.Context) ([]odom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	return collect(r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx), docToOrder)
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o odom.Order) (odom.Order, error) {
	if r == nil || r.Client == nil {
		return odom.Order{}, errNilClient
	}
	ref := docRef(r.col(), o.ID)
	o.ID = ref.ID
	if _, err := ref.Create(ctx, orderToDoc(o)); err != nil {
		return odom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryFS) UpdateStatus(ctx context.Context, id string, st odom.Status) (odom.Order, error) {
	if r == nil || r.Client == nil {
		return odom.Order{}, errNilClient
	}
	if _, err := odom.ParseStatus(string(st)); err != nil {
		return odom.Order{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return odom.Order{}, odom.ErrNotFound
	}
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if isNotFound(err) {
		return odom.Order{}, odom.ErrNotFound
	}
	if err != nil {
		return odom.Order{}, err
	}
	return r.GetByID(ctx, id)
}

func sortOrdersNewestFirst(os []odom.Order) {
	sort.SliceStable(os, func(i, j int) bool { return os[i].CreatedAt.After(os[j].CreatedAt) })
}

func orderToDoc(o odom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
		})
	}
	return orderDoc{
		ProductIDs: append([]string{}, o.ProductIDs...),
		Items:      items,
		Payment: paymentDoc{
			TransactionID: o.Payment.TransactionID,
			Amount:        o.Payment.Amount,
			Status:        o.Payment.Status,
			Success:       o.Payment.Success,
		},
		BuyerID:   o.BuyerID,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func docToOrder(snap *firestore.DocumentSnapshot) (odom.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return odom.Order{}, err
	}
	items := make([]odom.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, odom.Item{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
		})
	}
	ids := d.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	return odom.Order{
		ID:         snap.Ref.ID,
		ProductIDs: ids,
		Items:      items,
		Payment: odom.Payment{
			TransactionID: d.Payment.TransactionID,
			Amount:        d.Payment.Amount,
			Status:        d.Payment.Status,
			Success:       d.Payment.Success,
		},
		BuyerID:   d.BuyerID,
		Status:    odom.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
