// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	udom "storefront/internal/domain/user"
)

var (
	ErrWrongPassword = errors.New("auth_usecase: invalid password")
	ErrWrongAnswer   = errors.New("auth_usecase: wrong email or answer")
)

// Identity is what a verified bearer token says about its holder.
// JWTs carry UserID; Firebase tokens carry only Email.
type Identity struct {
	UserID string
	Email  string
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(u udom.User) (string, error)
}

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

// PasswordHasher hashes passwords and security answers.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptHasher implements PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// AuthUsecase handles accounts and sessions.
type AuthUsecase struct {
	users    udom.Repository
	hasher   PasswordHasher
	issuer   TokenIssuer
	verifier TokenVerifier
	clock    Clock
	newID    IDGenerator
}

func NewAuthUsecase(users udom.Repository, hasher PasswordHasher, issuer TokenIssuer, verifier TokenVerifier) *AuthUsecase {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		clock:    systemClock{},
		newID:    defaultID,
	}
}

// WithClock is useful for tests.
func (uc *AuthUsecase) WithClock(c Clock) *AuthUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Answer   string
}

func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput) (udom.User, error) {
	now := uc.clock.Now()
	u := udom.User{
		ID:        uc.newID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     udom.NormalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Role:      0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return udom.User{}, err
	}
	if err := udom.ValidatePassword(in.Password); err != nil {
		return udom.User{}, err
	}
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return udom.User{}, udom.ErrInvalidAnswer
	}

	var err error
	if u.PasswordHash, err = uc.hasher.Hash(in.Password); err != nil {
		return udom.User{}, fmt.Errorf("auth_usecase: hash password: %w", err)
	}
	if u.AnswerHash, err = uc.hasher.Hash(strings.ToLower(answer)); err != nil {
		return udom.User{}, fmt.Errorf("auth_usecase: hash answer: %w", err)
	}

	created, err := uc.users.Create(ctx, u)
	if err != nil {
		return udom.User{}, err
	}
	log.Printf("[auth_usecase] registered userId=%q", created.ID)
	return created, nil
}

// Login returns the user and a fresh session token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (udom.User, string, error) {
	email = udom.NormalizeEmail(email)
	if email == "" || password == "" {
		return udom.User{}, "", ErrInvalidArgument
	}
	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return udom.User{}, "", err
	}
	if err := uc.hasher.Compare(u.PasswordHash, password); err != nil {
		return udom.User{}, "", ErrWrongPassword
	}
	if uc.issuer == nil {
		return udom.User{}, "", fmt.Errorf("auth_usecase: token issuer not configured")
	}
	tok, err := uc.issuer.Issue(u)
	if err != nil {
		return udom.User{}, "", fmt.Errorf("auth_usecase: issue token: %w", err)
	}
	return u, tok, nil
}

// ForgotPassword resets the password when the security answer matches.
func (uc *AuthUsecase) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	email = udom.NormalizeEmail(email)
	answer = strings.TrimSpace(answer)
	if email == "" || answer == "" {
		return ErrInvalidArgument
	}
	if err := udom.ValidatePassword(newPassword); err != nil {
		return err
	}

	u, err := uc.users.GetByEmail(ctx, email)
	if errors.Is(err, udom.ErrNotFound) {
		return ErrWrongAnswer
	}
	if err != nil {
		return err
	}
	if err := uc.hasher.Compare(u.AnswerHash, strings.ToLower(answer)); err != nil {
		return ErrWrongAnswer
	}

	if u.PasswordHash, err = uc.hasher.Hash(newPassword); err != nil {
		return fmt.Errorf("auth_usecase: hash password: %w", err)
	}
	u.UpdatedAt = uc.clock.Now()
	_, err = uc.users.Save(ctx, u)
	return err
}

// Authenticate resolves a bearer token to the stored user.
func (uc *AuthUsecase) Authenticate(ctx context.Context, raw string) (udom.User, error) {
	if uc.verifier == nil {
		return udom.User{}, fmt.Errorf("auth_usecase: token verifier not configured")
	}
	id, err := uc.verifier.Verify(ctx, raw)
	if err != nil {
		return udom.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var u udom.User
	switch {
	case strings.TrimSpace(id.UserID) != "":
		u, err = uc.users.GetByID(ctx, id.UserID)
	case strings.TrimSpace(id.Email) != "":
		u, err = uc.users.GetByEmail(ctx, id.Email)
	default:
		return udom.User{}, ErrUnauthorized
	}
	if errors.Is(err, udom.ErrNotFound) {
		return udom.User{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	if err != nil {
		return udom.User{}, err
	}
	return u, nil
}

type ProfileInput struct {
	Name     string
	Password string // optional
	Phone    string
	Address  string
}

// UpdateProfile changes the given fields; blank fields keep their value.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (udom.User, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return udom.User{}, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		u.Phone = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		u.Address = v
	}
	if err := u.Validate(); err != nil {
		return udom.User{}, err
	}
	if in.Password != "" {
		if err := udom.ValidatePassword(in.Password); err != nil {
			return udom.User{}, err
		}
		if u.PasswordHash, err = uc.hasher.Hash(in.Password); err != nil {
			return udom.User{}, fmt.Errorf("auth_usecase: hash password: %w", err)
		}
	}
	u.UpdatedAt = uc.clock.Now()
	return uc.users.Save(ctx, u)
}
