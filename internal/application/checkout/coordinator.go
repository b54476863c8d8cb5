// internal/application/checkout/coordinator.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"storefront/internal/application/state"
	authdom "storefront/internal/domain/auth"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/common"
	"storefront/internal/domain/product"
)

var (
	ErrNotReady          = errors.New("checkout: payment instance not ready")
	ErrInvalidTransition = errors.New("checkout: invalid state transition")
	ErrTokenUnavailable  = errors.New("checkout: payment client token unavailable")
	ErrNoNonce           = errors.New("checkout: payment method returned no nonce")
	ErrNotAuthenticated  = errors.New("checkout: login required")
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrCartResolving     = errors.New("checkout: cart changed since it was resolved")
)

// OrdersPath is where a successful checkout lands.
const OrdersPath = "/dashboard/user/orders"

// DefaultResetDelay is how long a failed widget stays torn down before it is rebuilt.
const DefaultResetDelay = 500 * time.Millisecond

// Scheduler runs f after d; the returned func cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func timeScheduler(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, f)
	return t.Stop
}

// Deps wires a Coordinator.
type Deps struct {
	Payments  PaymentAPI
	Catalog   Catalog
	Widgets   WidgetFactory
	Presenter Presenter
	Auth      *state.AuthHolder
	Cart      *state.CartHolder

	ResetDelay time.Duration // 0 = DefaultResetDelay
	Scheduler  Scheduler     // nil = time.AfterFunc
}

// Coordinator drives checkout: client token, widget, cart resolution and payment.
type Coordinator struct {
	payments  PaymentAPI
	catalog   Catalog
	widgets   WidgetFactory
	presenter Presenter
	auth      *state.AuthHolder
	cart      *state.CartHolder

	resetDelay time.Duration
	schedule   Scheduler

	mu          sync.Mutex
	st          State
	clientToken string
	widget      Widget
	tokenGen    uint64

	resolved      []product.ResolvedItem
	productStatus ProductStatus
	resolveGen    uint64
	// cart contents and owner the resolved list was built from
	resolvedIDs   cartdom.Record
	resolvedEmail string

	// a token restart that arrived while a payment was in flight
	restartPending bool
	restartCtx     context.Context

	cancelReset func() bool
	unsubs      []func()
}

func New(d Deps) *Coordinator {
	delay := d.ResetDelay
	if delay <= 0 {
		delay = DefaultResetDelay
	}
	sched := d.Scheduler
	if sched == nil {
		sched = timeScheduler
	}
	p := d.Presenter
	if p == nil {
		p = nopPresenter{}
	}
	return &Coordinator{
		payments:      d.Payments,
		catalog:       d.Catalog,
		widgets:       d.Widgets,
		presenter:     p,
		auth:          d.Auth,
		cart:          d.Cart,
		resetDelay:    delay,
		schedule:      sched,
		st:            Idle,
		resolved:      []product.ResolvedItem{},
		productStatus: ProductsLoading,
	}
}

// ------------------------------------------------------------
// Projections
// ------------------------------------------------------------

// State returns the current checkout state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// PaymentAvailable reports whether the payment section can be shown.
func (c *Coordinator) PaymentAvailable() bool {
	return c.State() != TokenUnavailable
}

// Submitting reports whether the submit control must be disabled.
func (c *Coordinator) Submitting() bool {
	return c.State() == PaymentSubmitting
}

// ProductStatus returns the resolution tri-state.
func (c *Coordinator) ProductStatus() ProductStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.productStatus
}

// Items returns the last resolved cart.
func (c *Coordinator) Items() []product.ResolvedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]product.ResolvedItem, len(c.resolved))
	copy(out, c.resolved)
	return out
}

// Total is the sum of resolved prices in cents.
func (c *Coordinator) Total() int64 {
	var sum int64
	for _, it := range c.Items() {
		sum += common.ToCents(it.Price)
	}
	return sum
}

// TotalString formats Total as en-US currency.
func (c *Coordinator) TotalString() string {
	return common.FormatUSD(c.Total())
}

// ------------------------------------------------------------
// Lifecycle
// ------------------------------------------------------------

// Watch re-requests the client token whenever the auth token changes and
// re-resolves the cart whenever it changes. Work runs on goroutines; stale
// results are dropped.
func (c *Coordinator) Watch(ctx context.Context) {
	lastToken := ""
	if c.auth != nil {
		lastToken = c.auth.Get().Token
	}
	var mu sync.Mutex

	if c.auth != nil {
		c.unsubs = append(c.unsubs, c.auth.Subscribe(func(rec authdom.Record) {
			mu.Lock()
			changed := rec.Token != lastToken
			lastToken = rec.Token
			mu.Unlock()
			if changed {
				go func() { _ = c.start(ctx, true) }()
			}
		}))
	}
	if c.cart != nil {
		c.unsubs = append(c.unsubs, c.cart.Subscribe(func(state.CartSnapshot) {
			go func() { _ = c.ResolveCart(ctx) }()
		}))
	}
}

// Close cancels a pending widget reset, tears the widget down and stops watching.
func (c *Coordinator) Close() {
	for _, u := range c.unsubs {
		u()
	}
	c.unsubs = nil

	c.mu.Lock()
	if c.cancelReset != nil {
		c.cancelReset()
		c.cancelReset = nil
	}
	w := c.widget
	c.widget = nil
	c.mu.Unlock()

	teardown(w)
}

// Start requests a client token and builds the widget from it. A failure is
// logged, leaves the payment section unavailable and is not retried.
func (c *Coordinator) Start(ctx context.Context) error {
	return c.start(ctx, false)
}

// start with deferIfBusy queues the restart when a payment is in flight; Pay
// runs it once the payment has settled.
func (c *Coordinator) start(ctx context.Context, deferIfBusy bool) error {
	c.mu.Lock()
	if err := c.transitionLocked(TokenRequested); err != nil {
		if deferIfBusy && c.st == PaymentSubmitting {
			c.restartPending = true
			c.restartCtx = ctx
			log.Printf("[checkout] token restart deferred until payment settles")
		}
		c.mu.Unlock()
		return err
	}
	c.tokenGen++
	gen := c.tokenGen
	old := c.widget
	c.widget = nil
	c.clientToken = ""
	if c.cancelReset != nil {
		c.cancelReset()
		c.cancelReset = nil
	}
	c.mu.Unlock()

	teardown(old)

	token, err := c.payments.ClientToken(ctx)
	if err == nil && strings.TrimSpace(token) == "" {
		err = errors.New("empty client token")
	}

	c.mu.Lock()
	if gen != c.tokenGen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.st = TokenUnavailable
		c.mu.Unlock()
		log.Printf("[checkout] client token request failed err=%v (payment section hidden)", err)
		return fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	c.st = TokenReady
	c.clientToken = token
	c.mu.Unlock()

	return c.buildWidget(ctx, gen, TokenReady)
}

// buildWidget turns a client token into a ready instance. from is the state
// the coordinator must still be in when the widget arrives.
func (c *Coordinator) buildWidget(ctx context.Context, gen uint64, from State) error {
	c.mu.Lock()
	token := c.clientToken
	c.mu.Unlock()

	w, err := c.widgets.NewWidget(ctx, token)

	c.mu.Lock()
	if gen != c.tokenGen || c.st != from {
		c.mu.Unlock()
		teardown(w)
		return nil
	}
	if err != nil {
		c.st = TokenUnavailable
		c.mu.Unlock()
		log.Printf("[checkout] payment widget init failed err=%v", err)
		return fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	c.widget = w
	c.st = InstanceReady
	c.mu.Unlock()
	return nil
}

// ResolveCart joins the current cart ids against the catalog in one batch.
func (c *Coordinator) ResolveCart(ctx context.Context) error {
	// ids and generation are taken together so a newer generation always
	// carries the newer cart
	c.mu.Lock()
	ids, email := c.cartLocked()
	c.resolveGen++
	gen := c.resolveGen
	c.productStatus = ProductsLoading
	c.mu.Unlock()

	if len(ids) == 0 {
		c.mu.Lock()
		if gen == c.resolveGen {
			c.resolved = []product.ResolvedItem{}
			c.resolvedIDs = ids
			c.resolvedEmail = email
			c.productStatus = ProductsLoaded
		}
		c.mu.Unlock()
		return nil
	}

	products, err := c.catalog.ProductsByIDs(ctx, product.UniqueIDs(ids))

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.resolveGen {
		return nil
	}
	if err != nil {
		c.productStatus = ProductsError
		c.resolved = []product.ResolvedItem{}
		c.resolvedIDs = nil
		log.Printf("[checkout] cart resolution failed ids=%d err=%v", len(ids), err)
		return err
	}
	c.resolved = product.Resolve(ids, products)
	c.resolvedIDs = ids
	c.resolvedEmail = email
	c.productStatus = ProductsLoaded
	return nil
}

// cartLocked snapshots the visible cart and its owner. Caller holds c.mu.
func (c *Coordinator) cartLocked() (cartdom.Record, string) {
	if c.cart == nil {
		return cartdom.Record{}, ""
	}
	return c.cart.Items(), c.cart.Email()
}

// resolvedCurrentLocked reports whether the resolved list was built from the
// cart as it is now. Caller holds c.mu.
func (c *Coordinator) resolvedCurrentLocked() bool {
	if c.productStatus != ProductsLoaded || c.resolvedIDs == nil {
		return false
	}
	ids, email := c.cartLocked()
	if email != c.resolvedEmail || len(ids) != len(c.resolvedIDs) {
		return false
	}
	for i := range ids {
		if ids[i] != c.resolvedIDs[i] {
			return false
		}
	}
	return true
}

// ------------------------------------------------------------
// Payment
// ------------------------------------------------------------

// Pay runs the submission. It is legal only from InstanceReady, which also
// turns a double submit into ErrNotReady.
func (c *Coordinator) Pay(ctx context.Context) error {
	var rec authdom.Record
	if c.auth != nil {
		rec = c.auth.Get()
	}

	c.mu.Lock()
	if c.st != InstanceReady || c.widget == nil {
		st := c.st
		c.mu.Unlock()
		return fmt.Errorf("%w (state=%s)", ErrNotReady, st)
	}
	if !rec.Authenticated() {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	if !c.resolvedCurrentLocked() {
		status := c.productStatus
		c.mu.Unlock()
		return fmt.Errorf("%w (products=%s)", ErrCartResolving, status)
	}
	if len(c.resolved) == 0 {
		c.mu.Unlock()
		return ErrEmptyCart
	}
	email := rec.Email()
	items := make([]product.ResolvedItem, len(c.resolved))
	copy(items, c.resolved)
	paid := c.resolvedIDs.Clone()
	w := c.widget
	c.st = PaymentSubmitting
	c.mu.Unlock()

	nonce, err := w.RequestPaymentMethod(ctx)
	if err != nil || strings.TrimSpace(nonce) == "" {
		c.mu.Lock()
		c.st = InstanceReady
		c.mu.Unlock()
		c.runPendingRestart()
		if err != nil {
			log.Printf("[checkout] requestPaymentMethod failed err=%v", err)
		}
		c.presenter.Notify(LevelError, NoNonceMessage)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoNonce, err)
		}
		return ErrNoNonce
	}

	err = c.payments.SubmitPayment(ctx, nonce, items)
	if err == nil {
		// items added while the payment was in flight stay in the cart
		if c.cart != nil {
			c.cart.RemovePaidFor(email, paid)
		}
		c.mu.Lock()
		c.st = PaymentSucceeded
		c.mu.Unlock()
		c.runPendingRestart()

		log.Printf("[checkout] payment ok email=%q items=%d", email, len(items))
		c.presenter.Navigate(OrdersPath)
		c.presenter.Notify(LevelSuccess, SuccessMessage)
		return nil
	}

	kind, level, msg := Classify(err)
	log.Printf("[checkout] payment failed kind=%s err=%v", kind, err)

	c.mu.Lock()
	c.st = PaymentFailed
	gen := c.tokenGen
	old := c.widget
	c.widget = nil
	c.mu.Unlock()

	c.presenter.Notify(level, msg)
	teardown(old)
	c.scheduleReset(context.WithoutCancel(ctx), gen)
	c.runPendingRestart()

	return &PaymentError{Kind: kind, Message: msg, Err: err}
}

// runPendingRestart starts the token restart queued during a payment.
func (c *Coordinator) runPendingRestart() {
	c.mu.Lock()
	pending, ctx := c.restartPending, c.restartCtx
	c.restartPending, c.restartCtx = false, nil
	c.mu.Unlock()
	if !pending {
		return
	}
	go func() { _ = c.start(ctx, true) }()
}

// scheduleReset rebuilds the widget after resetDelay so a fresh nonce can be
// obtained. The user has to submit again; nothing is retried.
func (c *Coordinator) scheduleReset(ctx context.Context, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelReset != nil {
		c.cancelReset()
	}
	c.cancelReset = c.schedule(c.resetDelay, func() {
		c.mu.Lock()
		c.cancelReset = nil
		stillFailed := c.st == PaymentFailed && gen == c.tokenGen
		c.mu.Unlock()
		if !stillFailed {
			return
		}
		if err := c.buildWidget(ctx, gen, PaymentFailed); err != nil {
			log.Printf("[checkout] widget reset failed err=%v", err)
		}
	})
}

func (c *Coordinator) transitionLocked(to State) error {
	if !canTransition(c.st, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.st, to)
	}
	c.st = to
	return nil
}

func teardown(w Widget) {
	if w == nil {
		return
	}
	if err := w.Teardown(); err != nil {
		log.Printf("[checkout] widget teardown err=%v", err)
	}
}

type nopPresenter struct{}

func (nopPresenter) Navigate(string)      {}
func (nopPresenter) Notify(Level, string) {}
