// internal/adapters/in/cli/app.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/adapters/out/localstore"
	httpout "storefront/internal/adapters/out/http"
	"storefront/internal/application/checkout"
	"storefront/internal/application/state"
	"storefront/internal/domain/session"
)

// App is one CLI process: session store, holders and API client.
type App struct {
	cfg *Config
	out io.Writer

	Store session.Store
	Auth  *state.AuthHolder
	Cart  *state.CartHolder
	API   *httpout.Client

	closers []func()
}

// NewApp opens the session file and routes logs to the log file.
func NewApp(cfg *Config, out io.Writer) (*App, error) {
	if cfg == nil {
		return nil, errors.New("cli: config is nil")
	}
	var closers []func()
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err == nil {
			if f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600); err == nil {
				log.SetOutput(f)
				closers = append(closers, func() { _ = f.Close() })
			}
		}
	}

	store, err := localstore.OpenFileStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("cli: open session: %w", err)
	}
	app := NewAppWithStore(cfg, out, store)
	app.closers = append(app.closers, closers...)
	return app, nil
}

// NewAppWithStore wires an App over an existing store.
func NewAppWithStore(cfg *Config, out io.Writer, store session.Store) *App {
	auth := state.NewAuthHolder(store)
	a := &App{
		cfg:   cfg,
		out:   out,
		Store: store,
		Auth:  auth,
		Cart:  state.NewCartHolder(store, auth),
	}
	a.API = httpout.NewClient(cfg.APIURL, func() string { return a.Auth.Get().Token })
	a.closers = append(a.closers, a.Cart.Close)
	log.Printf("[cli] session loaded email=%q cart=%d", auth.Email(), a.Cart.Count())
	return a
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Coordinator builds a checkout coordinator that pays with nonce.
func (a *App) Coordinator(nonce string) *checkout.Coordinator {
	return checkout.New(checkout.Deps{
		Payments:   a.API,
		Catalog:    a.API,
		Widgets:    nonceWidgetFactory{nonce: nonce},
		Presenter:  printPresenter{out: a.out},
		Auth:       a.Auth,
		Cart:       a.Cart,
		ResetDelay: a.cfg.ResetDelay,
	})
}

// nonceWidgetFactory stands in for the hosted card form: the nonce comes from
// the command line (sandbox nonces such as fake-valid-nonce).
type nonceWidgetFactory struct {
	nonce string
}

func (f nonceWidgetFactory) NewWidget(_ context.Context, clientToken string) (checkout.Widget, error) {
	if strings.TrimSpace(clientToken) == "" {
		return nil, errors.New("cli: empty client token")
	}
	return &nonceWidget{nonce: strings.TrimSpace(f.nonce)}, nil
}

type nonceWidget struct {
	nonce string
}

func (w *nonceWidget) RequestPaymentMethod(context.Context) (string, error) {
	if w.nonce == "" {
		return "", errors.New("no payment method entered (use --nonce)")
	}
	return w.nonce, nil
}

func (w *nonceWidget) Teardown() error { return nil }
