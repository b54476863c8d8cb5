// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/adapters/in/http/handlers"
	"storefront/internal/adapters/in/http/middleware"
)

// APIPrefix is where every storefront endpoint is mounted.
const APIPrefix = "/api/v1"

// RouterDeps collects the services injected by the DI container.
type RouterDeps struct {
	Auth       handlers.AuthService
	Categories handlers.CategoryService
	Products   handlers.ProductService
	Orders     handlers.OrderService
	Payments   handlers.PaymentService

	Authenticator  middleware.Authenticator
	AllowedOrigins []string
}

// NewRouter sets up HTTP routing for all storefront endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS outermost so panics answered by Recover still carry CORS headers.
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Recover)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	am := &middleware.AuthMiddleware{Auth: deps.Authenticator}

	r.Route(APIPrefix, func(r chi.Router) {
		if deps.Auth != nil {
			mountAuth(r, am, handlers.NewAuthHandler(deps.Auth), deps.Orders)
		}
		if deps.Categories != nil {
			mountCategory(r, am, handlers.NewCategoryHandler(deps.Categories))
		}
		r.Route("/product", func(r chi.Router) {
			if deps.Products != nil {
				mountProduct(r, am, handlers.NewProductHandler(deps.Products))
			}
			if deps.Payments != nil {
				h := handlers.NewPaymentHandler(deps.Payments)
				r.Get("/braintree/token", h.Token)
				r.With(am.RequireAuth).Post("/braintree/payment", h.Pay)
			}
		})
	})

	return r
}

func mountAuth(r chi.Router, am *middleware.AuthMiddleware, h *handlers.AuthHandler, orders handlers.OrderService) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(am.RequireAuth)
			r.Get("/user-auth", h.Check)
			r.Put("/profile", h.UpdateProfile)

			if orders != nil {
				oh := handlers.NewOrderHandler(orders)
				r.Get("/orders", oh.Mine)
				r.Get("/orders/{orderId}/receipt", oh.Receipt)

				r.With(am.RequireAdmin).Get("/all-orders", oh.All)
				r.With(am.RequireAdmin).Put("/order-status/{orderId}", oh.UpdateStatus)
			}
			r.With(am.RequireAdmin).Get("/admin-auth", h.Check)
		})
	})
}

func mountCategory(r chi.Router, am *middleware.AuthMiddleware, h *handlers.CategoryHandler) {
	r.Route("/category", func(r chi.Router) {
		r.Get("/get-category", h.List)
		r.Get("/single-category/{slug}", h.Single)

		r.Group(func(r chi.Router) {
			r.Use(am.RequireAuth, am.RequireAdmin)
			r.Post("/create-category", h.Create)
			r.Put("/update-category/{id}", h.Update)
			r.Delete("/delete-category/{id}", h.Delete)
		})
	})
}

func mountProduct(r chi.Router, am *middleware.AuthMiddleware, h *handlers.ProductHandler) {
	r.Get("/get-product", h.Latest)
	r.Get("/get-product/{slug}", h.Single)
	r.Get("/product-photo/{pid}", h.Photo)
	r.Post("/product-filters", h.Filters)
	r.Get("/product-count", h.Count)
	r.Get("/product-list/{page}", h.List)
	r.Get("/search/{keyword}", h.Search)
	r.Get("/related-product/{pid}/{cid}", h.Related)
	r.Get("/product-category/{slug}", h.ByCategory)
	r.Get("/cart-products", h.CartProducts)

	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth, am.RequireAdmin)
		r.Post("/create-product", h.Create)
		r.Put("/update-product/{pid}", h.Update)
		r.Delete("/delete-product/{pid}", h.Delete)
	})
}
