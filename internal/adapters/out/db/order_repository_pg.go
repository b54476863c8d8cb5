// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	dbcommon "storefront/internal/adapters/out/db/common"
	orderdom "storefront/internal/domain/order"
)

// OrderSchema creates the orders table used by OrderRepositoryPG.
const OrderSchema = `
CREATE TABLE IF NOT EXISTS orders (
  id          TEXT PRIMARY KEY,
  buyer_id    TEXT NOT NULL,
  status      TEXT NOT NULL,
  product_ids TEXT[] NOT NULL DEFAULT '{}',
  items       JSONB NOT NULL DEFAULT '[]',
  payment     JSONB NOT NULL DEFAULT '{}',
  created_at  TIMESTAMPTZ NOT NULL,
  updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_buyer_created_idx ON orders (buyer_id, created_at DESC);
`

const orderColumns = `id, buyer_id, status, product_ids, items, payment, created_at, updated_at`

// OrderRepositoryPG is the PostgreSQL implementation of order.Repository.
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

// EnsureSchema applies OrderSchema.
func (r *OrderRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := dbcommon.GetRunner(ctx, r.DB).ExecContext(ctx, OrderSchema)
	return err
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	run := dbcommon.GetRunner(ctx, r.DB)
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(run.QueryRowContext(ctx, q, strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryPG) ListByBuyer(ctx context.Context, buyerID string) ([]orderdom.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, strings.TrimSpace(buyerID))
}

func (r *OrderRepositoryPG) ListAll(ctx context.Context) ([]orderdom.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q)
}

func (r *OrderRepositoryPG) query(ctx context.Context, q string, args ...any) ([]orderdom.Order, error) {
	rows, err := dbcommon.GetRunner(ctx, r.DB).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepositoryPG) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.Order{}, errors.New("order_repository_pg: id is required")
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderdom.Order{}, err
	}
	pay, err := json.Marshal(o.Payment)
	if err != nil {
		return orderdom.Order{}, err
	}

	run := dbcommon.GetRunner(ctx, r.DB)
	q := `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = run.ExecContext(ctx, q,
		o.ID, o.BuyerID, string(o.Status), pq.Array(o.ProductIDs), items, pay,
		o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return orderdom.Order{}, fmt.Errorf("order_repository_pg: duplicate id %q: %w", o.ID, err)
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id string, st orderdom.Status) (orderdom.Order, error) {
	if _, err := orderdom.ParseStatus(string(st)); err != nil {
		return orderdom.Order{}, err
	}
	run := dbcommon.GetRunner(ctx, r.DB)
	q := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + orderColumns
	o, err := scanOrder(run.QueryRowContext(ctx, q, strings.TrimSpace(id), string(st), time.Now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}

func scanOrder(s dbcommon.RowScanner) (orderdom.Order, error) {
	var (
		o          orderdom.Order
		status     string
		productIDs pq.StringArray
		itemsRaw   []byte
		payRaw     []byte
	)
	if err := s.Scan(&o.ID, &o.BuyerID, &status, &productIDs, &itemsRaw, &payRaw, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return orderdom.Order{}, err
	}
	o.Status = orderdom.Status(status)
	o.ProductIDs = []string(productIDs)
	if o.ProductIDs == nil {
		o.ProductIDs = []string{}
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
			return orderdom.Order{}, fmt.Errorf("order_repository_pg: decode items: %w", err)
		}
	}
	if len(payRaw) > 0 {
		if err := json.Unmarshal(payRaw, &o.Payment); err != nil {
			return orderdom.Order{}, fmt.Errorf("order_repository_pg: decode payment: %w", err)
		}
	}
	return o, nil
}
