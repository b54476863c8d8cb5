package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/common"
	odom "storefront/internal/domain/order"
	paydom "storefront/internal/domain/payment"
	pdom "storefront/internal/domain/product"
	udom "storefront/internal/domain/user"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func seqIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

// ------------------------------------------------------------
// users
// ------------------------------------------------------------

type memUsers struct {
	mu   sync.Mutex
	byID map[string]udom.User
}

func newMemUsers(us ...udom.User) *memUsers {
	m := &memUsers{byID: map[string]udom.User{}}
	for _, u := range us {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id string) (udom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return udom.User{}, udom.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (udom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return udom.User{}, udom.ErrNotFound
}

func (m *memUsers) Create(ctx context.Context, u udom.User) (udom.User, error) {
	if _, err := m.GetByEmail(ctx, u.Email); err == nil {
		return udom.User{}, udom.ErrConflict
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) Save(_ context.Context, u udom.User) (udom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return udom.User{}, udom.ErrNotFound
	}
	m.byID[u.ID] = u
	return u, nil
}

// ------------------------------------------------------------
// categories
// ------------------------------------------------------------

type memCategories struct {
	byID map[string]catdom.Category
}

func newMemCategories(cs ...catdom.Category) *memCategories {
	m := &memCategories{byID: map[string]catdom.Category{}}
	for _, c := range cs {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memCategories) GetByID(_ context.Context, id string) (catdom.Category, error) {
	c, ok := m.byID[id]
	if !ok {
		return catdom.Category{}, catdom.ErrNotFound
	}
	return c, nil
}

func (m *memCategories) find(match func(catdom.Category) bool) (catdom.Category, error) {
	for _, c := range m.byID {
		if match(c) {
			return c, nil
		}
	}
	return catdom.Category{}, catdom.ErrNotFound
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (catdom.Category, error) {
	return m.find(func(c catdom.Category) bool { return c.Slug == slug })
}

func (m *memCategories) GetByName(_ context.Context, name string) (catdom.Category, error) {
	return m.find(func(c catdom.Category) bool { return c.Name == name })
}

func (m *memCategories) List(context.Context) ([]catdom.Category, error) {
	out := make([]catdom.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) Create(_ context.Context, c catdom.Category) (catdom.Category, error) {
	m.byID[c.ID] = c
	return c, nil
}

func (m *memCategories) Save(_ context.Context, c catdom.Category) (catdom.Category, error) {
	if _, ok := m.byID[c.ID]; !ok {
		return catdom.Category{}, catdom.ErrNotFound
	}
	m.byID[c.ID] = c
	return c, nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return catdom.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// ------------------------------------------------------------
// products
// ------------------------------------------------------------

type memProducts struct {
	byID      map[string]pdom.Product
	createErr error
	lastIDs   []string
}

func newMemProducts(ps ...pdom.Product) *memProducts {
	m := &memProducts{byID: map[string]pdom.Product{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) all() []pdom.Product {
	out := make([]pdom.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out
}

func (m *memProducts) GetByID(_ context.Context, id string) (pdom.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return pdom.Product{}, pdom.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) GetBySlug(_ context.Context, slug string) (pdom.Product, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return pdom.Product{}, pdom.ErrNotFound
}

func (m *memProducts) GetByIDs(_ context.Context, ids []string) ([]pdom.Product, error) {
	m.lastIDs = append([]string(nil), ids...)
	var out []pdom.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) List(_ context.Context, f pdom.Filter, page common.Page) (common.PageResult[pdom.Product], error) {
	return pdom.Paginate(m.all(), f, page), nil
}

func (m *memProducts) Count(_ context.Context, f pdom.Filter) (int, error) {
	n := 0
	for _, p := range m.byID {
		if f.Match(p) {
			n++
		}
	}
	return n, nil
}

func (m *memProducts) Create(_ context.Context, p pdom.Product) (pdom.Product, error) {
	if m.createErr != nil {
		return pdom.Product{}, m.createErr
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memProducts) Save(_ context.Context, p pdom.Product) (pdom.Product, error) {
	if _, ok := m.byID[p.ID]; !ok {
		return pdom.Product{}, pdom.ErrNotFound
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pdom.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memPhotos struct {
	objects map[string][]byte
	deleted []string
}

func newMemPhotos() *memPhotos { return &memPhotos{objects: map[string][]byte{}} }

func (m *memPhotos) Put(_ context.Context, productID, contentType string, data []byte) (string, error) {
	path := "products/" + productID + "/" + string(rune('a'+len(m.objects)))
	m.objects[path] = data
	return path, nil
}

func (m *memPhotos) Open(_ context.Context, path string) ([]byte, string, error) {
	b, ok := m.objects[path]
	if !ok {
		return nil, "", pdom.ErrNotFound
	}
	return b, "image/png", nil
}

func (m *memPhotos) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	delete(m.objects, path)
	return nil
}

// ------------------------------------------------------------
// orders
// ------------------------------------------------------------

type memOrders struct {
	byID      map[string]odom.Order
	createErr error
}

func newMemOrders(os ...odom.Order) *memOrders {
	m := &memOrders{byID: map[string]odom.Order{}}
	for _, o := range os {
		m.byID[o.ID] = o
	}
	return m
}

func (m *memOrders) GetByID(_ context.Context, id string) (odom.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return odom.Order{}, odom.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) ListByBuyer(_ context.Context, buyerID string) ([]odom.Order, error) {
	var out []odom.Order
	for _, o := range m.byID {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) ListAll(context.Context) ([]odom.Order, error) {
	out := make([]odom.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) Create(_ context.Context, o odom.Order) (odom.Order, error) {
	if m.createErr != nil {
		return odom.Order{}, m.createErr
	}
	m.byID[o.ID] = o
	return o, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, st odom.Status) (odom.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return odom.Order{}, odom.ErrNotFound
	}
	o.Status = st
	m.byID[id] = o
	return o, nil
}

// ------------------------------------------------------------
// gateway / notifier / receipts
// ------------------------------------------------------------

type fakeGateway struct {
	token    string
	tokenErr error
	result   paydom.Result
	saleErr  error

	calls      int
	lastNonce  string
	lastAmount int64
}

func (g *fakeGateway) GenerateClientToken(context.Context) (string, error) {
	return g.token, g.tokenErr
}

func (g *fakeGateway) Sale(_ context.Context, nonce string, amountCents int64) (paydom.Result, error) {
	g.calls++
	g.lastNonce, g.lastAmount = nonce, amountCents
	return g.result, g.saleErr
}

type sentMail struct {
	to, name, orderID string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) SendOrderConfirmation(_ context.Context, to, name string, o odom.Order) error {
	n.sent = append(n.sent, sentMail{to: to, name: name, orderID: o.ID})
	return n.err
}

type fakeReceipts struct {
	buyer udom.User
}

func (r *fakeReceipts) Render(o odom.Order, buyer udom.User) ([]byte, error) {
	r.buyer = buyer
	return []byte("%PDF-" + o.ID), nil
}
