// internal/adapters/out/authtoken/firebase.go
package authtoken

import (
	"context"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	uc "storefront/internal/application/usecase"
)

// FirebaseVerifier accepts Firebase ID tokens. Only the email claim is used;
// the stored user is looked up by email.
type FirebaseVerifier struct {
	Client *firebaseauth.Client
}

func NewFirebaseVerifier(client *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{Client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (uc.Identity, error) {
	if v == nil || v.Client == nil {
		return uc.Identity{}, fmt.Errorf("authtoken: firebase auth client is nil")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uc.Identity{}, ErrInvalidToken
	}

	token, err := v.Client.VerifyIDToken(ctx, raw)
	if err != nil {
		return uc.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := ""
	if s, ok := token.Claims["email"].(string); ok {
		email = strings.TrimSpace(s)
	}
	if email == "" {
		return uc.Identity{}, fmt.Errorf("%w: email claim missing (uid=%s)", ErrInvalidToken, token.UID)
	}
	return uc.Identity{Email: email}, nil
}
