// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/database"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/GCS/FirebaseAuth/SecretManager/Postgres)
// - owns env/config-resolved runtime settings
//
// Infra must NOT depend on routers or handlers.
type Infra struct {
	Config    *appcfg.Config
	Settings  RuntimeSettings
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	DB            *database.DB

	Secrets *SecretResolver
}

// NewInfra initializes shared infra.
// Firestore/GCS (and Postgres when selected) are strict.
// Firebase/Auth and SecretManager are best-effort (warn + continue) unless the
// settings require them.
func NewInfra(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	settings, warns, err := ResolveRuntimeSettings(cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		log.Printf("[shared.infra] WARN: %s", w)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	projectID := resolveProjectID(cfg)
	if projectID == "" {
		return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT)")
	}

	inf := &Infra{
		Config:    cfg,
		Settings:  settings,
		ProjectID: projectID,
	}

	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds) // GOOGLE_APPLICATION_CREDENTIALS
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Secret Manager (best-effort)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (secrets must come from env)", err)
	} else {
		inf.SecretManager = sm
	}
	inf.Secrets = NewSecretResolver(SecretManagerFetcher(inf.SecretManager, inf.ProjectID))

	// 2) Firestore (strict)
	fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
	}
	inf.Firestore = fsClient
	log.Printf("[shared.infra] Firestore connected project=%s", inf.ProjectID)

	// 3) GCS (strict)
	gcsClient, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
	}
	inf.GCS = gcsClient
	log.Printf("[shared.infra] GCS storage client initialized bucket=%q", settings.ProductPhotoBucket)

	// 4) Firebase App/Auth (best-effort unless AUTH_PROVIDER=firebase)
	if fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: inf.ProjectID}, clientOpts...); err != nil {
		log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
	} else {
		inf.FirebaseApp = fbApp
		if authClient, err := fbApp.Auth(ctx); err != nil {
			log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
		} else {
			inf.FirebaseAuth = authClient
			log.Printf("[shared.infra] Firebase Auth initialized")
		}
	}
	if settings.AuthProvider == "firebase" && inf.FirebaseAuth == nil {
		_ = inf.Close()
		return nil, errors.New("shared.infra: AUTH_PROVIDER=firebase but firebase auth is unavailable")
	}

	// 5) Postgres (strict when ORDER_STORE=postgres)
	if settings.OrderStore == "postgres" {
		db, err := database.NewConnection(ctx, settings.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: postgres: %w", err)
		}
		inf.DB = db
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
	return nil
}

func resolveProjectID(cfg *appcfg.Config) string {
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{
		"FIRESTORE_PROJECT_ID",
		"GCP_PROJECT_ID",
		"GOOGLE_CLOUD_PROJECT",
		"FIREBASE_PROJECT_ID",
	} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// redactPath keeps only the last path segment.
func redactPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
