// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/authtoken"
	pgdb "storefront/internal/adapters/out/db"
	outfs "storefront/internal/adapters/out/firestore"
	"storefront/internal/adapters/out/gateway"
	gcso "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/mail"
	"storefront/internal/adapters/out/pdf"
	usecase "storefront/internal/application/usecase"
	odom "storefront/internal/domain/order"
	paydom "storefront/internal/domain/payment"
	pdom "storefront/internal/domain/product"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
)

const storeName = "Storefront"

// Container is the API server DI container.
// Pure DI: build deps only, main.go stays thin.
type Container struct {
	Infra *shared.Infra

	AuthUC     *usecase.AuthUsecase
	CategoryUC *usecase.CategoryUsecase
	ProductUC  *usecase.ProductUsecase
	OrderUC    *usecase.OrderUsecase
	PaymentUC  *usecase.PaymentUsecase
}

// NewContainer builds infra, repositories and usecases.
func NewContainer(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	inf, err := shared.NewInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c, err := build(ctx, inf)
	if err != nil {
		_ = inf.Close()
		return nil, err
	}
	return c, nil
}

func build(ctx context.Context, inf *shared.Infra) (*Container, error) {
	cfg, s := inf.Config, inf.Settings

	// Repositories
	userRepo := outfs.NewUserRepositoryFS(inf.Firestore)
	categoryRepo := outfs.NewCategoryRepositoryFS(inf.Firestore)
	productRepo := outfs.NewProductRepositoryFS(inf.Firestore)

	var photos pdom.PhotoStore
	if s.ProductPhotoBucket != "" {
		photos = gcso.NewProductPhotoRepositoryGCS(inf.GCS, s.ProductPhotoBucket)
	}

	var orderRepo odom.Repository
	switch s.OrderStore {
	case "postgres":
		pg := pgdb.NewOrderRepositoryPG(inf.DB.Client)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("di: order schema: %w", err)
		}
		orderRepo = pg
	default:
		orderRepo = outfs.NewOrderRepositoryFS(inf.Firestore)
	}
	log.Printf("[di] order store=%s", s.OrderStore)

	// Auth
	jwtSecret, err := inf.Secrets.Resolve(ctx, cfg.JWTSecret, cfg.JWTSecretName)
	if err != nil {
		return nil, fmt.Errorf("di: jwt secret: %w", err)
	}
	issuer, err := authtoken.NewJWT(jwtSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("di: jwt: %w", err)
	}
	var verifier usecase.TokenVerifier = issuer
	if s.AuthProvider == "firebase" {
		verifier = authtoken.NewFirebaseVerifier(inf.FirebaseAuth)
	}
	log.Printf("[di] auth provider=%s", s.AuthProvider)

	// Payment
	gw, err := buildGateway(ctx, inf)
	if err != nil {
		return nil, err
	}

	// Mail (optional)
	var notifier usecase.OrderNotifier
	if s.MailEnabled {
		key, err := inf.Secrets.Resolve(ctx, cfg.SendGridAPIKey, cfg.SendGridAPIKeySecret)
		if err != nil {
			log.Printf("[di] WARN: sendgrid key unavailable: %v (mail disabled)", err)
		} else if m := mail.NewOrderMailerWithSendGrid(key, cfg.MailFrom); m != nil {
			notifier = m
		}
	}

	return &Container{
		Infra:      inf,
		AuthUC:     usecase.NewAuthUsecase(userRepo, usecase.BcryptHasher{}, issuer, verifier),
		CategoryUC: usecase.NewCategoryUsecase(categoryRepo),
		ProductUC:  usecase.NewProductUsecase(productRepo, categoryRepo, photos),
		OrderUC:    usecase.NewOrderUsecase(orderRepo, userRepo, pdf.NewReceiptRenderer(storeName)),
		PaymentUC:  usecase.NewPaymentUsecase(gw, productRepo, orderRepo, notifier),
	}, nil
}

func buildGateway(ctx context.Context, inf *shared.Infra) (paydom.Gateway, error) {
	cfg, s := inf.Config, inf.Settings
	if s.PaymentGateway != "http" {
		log.Printf("[di] payment gateway=sandbox")
		return gateway.NewSandbox(), nil
	}

	privateKey, err := inf.Secrets.Resolve(ctx, cfg.PaymentPrivateKey, cfg.PaymentPrivateKeySecret)
	if err != nil {
		return nil, fmt.Errorf("di: payment private key: %w", err)
	}
	gw, err := gateway.NewHTTPGateway(gateway.HTTPConfig{
		BaseURL:    s.PaymentGatewayURL,
		MerchantID: cfg.PaymentMerchantID,
		PublicKey:  cfg.PaymentPublicKey,
		PrivateKey: privateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("di: payment gateway: %w", err)
	}
	log.Printf("[di] payment gateway=http url=%s", s.PaymentGatewayURL)
	return gw, nil
}

// Router builds the HTTP handler over the container's usecases.
func (c *Container) Router() http.Handler {
	return httpin.NewRouter(httpin.RouterDeps{
		Auth:           c.AuthUC,
		Categories:     c.CategoryUC,
		Products:       c.ProductUC,
		Orders:         c.OrderUC,
		Payments:       c.PaymentUC,
		Authenticator:  c.AuthUC,
		AllowedOrigins: c.Infra.Config.CORSAllowedOrigins,
	})
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.Infra.Close()
}
