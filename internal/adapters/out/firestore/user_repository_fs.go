// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	udom "storefront/internal/domain/user"
)

// UserRepositoryFS implements user.Repository.
//
// Collection design:
// - collection: users
// - docId: user.ID
// - email is stored normalized; uniqueness is enforced inside a transaction.
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

type userDoc struct {
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	Phone        string    `firestore:"phone"`
	Address      string    `firestore:"address"`
	AnswerHash   string    `firestore:"answerHash"`
	Role         int       `firestore:"role"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (udom.User, error) {
	if r == nil || r.Client == nil {
		return udom.User{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return udom.User{}, udom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return udom.User{}, udom.ErrNotFound
	}
	if err != nil {
		return udom.User{}, err
	}
	return docToUser(snap)
}

func (r *UserRepositoryFS) GetByEmail(ctx context.Context, email string) (udom.User, error) {
	if r == nil || r.Client == nil {
		return udom.User{}, errNilClient
	}
	email = udom.NormalizeEmail(email)
	if email == "" {
		return udom.User{}, udom.ErrNotFound
	}

	snap, err := firstDoc(r.col().Where("email", "==", email).Limit(1).Documents(ctx))
	if err != nil {
		return udom.User{}, err
	}
	if snap == nil {
		return udom.User{}, udom.ErrNotFound
	}
	return docToUser(snap)
}

// Create fails with ErrConflict when the email is already registered.
func (r *UserRepositoryFS) Create(ctx context.Context, v udom.User) (udom.User, error) {
	if r == nil || r.Client == nil {
		return udom.User{}, errNilClient
	}

	now := time.Now().UTC()
	v.Email = udom.NormalizeEmail(v.Email)
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = v.CreatedAt
	}
	ref := docRef(r.col(), v.ID)
	v.ID = ref.ID

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := firstDoc(tx.Documents(r.col().Where("email", "==", v.Email).Limit(1)))
		if err != nil {
			return err
		}
		if snap != nil {
			return udom.ErrConflict
		}
		return tx.Create(ref, userToDoc(v))
	})
	if isAlreadyExists(err) {
		return udom.User{}, udom.ErrConflict
	}
	if err != nil {
		return udom.User{}, err
	}
	return v, nil
}

// Save overwrites an existing user; email is immutable here.
func (r *UserRepositoryFS) Save(ctx context.Context, v udom.User) (udom.User, error) {
	if r == nil || r.Client == nil {
		return udom.User{}, errNilClient
	}
	id := strings.TrimSpace(v.ID)
	if id == "" {
		return udom.User{}, udom.ErrNotFound
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = time.Now().UTC()
	}

	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "name", Value: strings.TrimSpace(v.Name)},
		{Path: "passwordHash", Value: v.PasswordHash},
		{Path: "phone", Value: strings.TrimSpace(v.Phone)},
		{Path: "address", Value: strings.TrimSpace(v.Address)},
		{Path: "answerHash", Value: v.AnswerHash},
		{Path: "role", Value: v.Role},
		{Path: "updatedAt", Value: v.UpdatedAt},
	})
	if isNotFound(err) {
		return udom.User{}, udom.ErrNotFound
	}
	if err != nil {
		return udom.User{}, err
	}
	return r.GetByID(ctx, id)
}

func userToDoc(v udom.User) userDoc {
	return userDoc{
		Name:         strings.TrimSpace(v.Name),
		Email:        udom.NormalizeEmail(v.Email),
		PasswordHash: v.PasswordHash,
		Phone:        strings.TrimSpace(v.Phone),
		Address:      strings.TrimSpace(v.Address),
		AnswerHash:   v.AnswerHash,
		Role:         v.Role,
		CreatedAt:    v.CreatedAt.UTC(),
		UpdatedAt:    v.UpdatedAt.UTC(),
	}
}

func docToUser(snap *firestore.DocumentSnapshot) (udom.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return udom.User{}, err
	}
	return udom.User{
		ID:           snap.Ref.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		Address:      d.Address,
		AnswerHash:   d.AnswerHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
