package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	udom "storefront/internal/domain/user"
)

type stubIssuer struct{}

func (stubIssuer) Issue(u udom.User) (string, error) { return "tok-" + u.ID, nil }

type stubVerifier struct {
	ids map[string]Identity
}

func (v stubVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	id, ok := v.ids[raw]
	if !ok {
		return Identity{}, errors.New("bad token")
	}
	return id, nil
}

func newAuthFixture() (*AuthUsecase, *memUsers) {
	users := newMemUsers()
	uc := NewAuthUsecase(users, BcryptHasher{Cost: bcrypt.MinCost}, stubIssuer{}, stubVerifier{ids: map[string]Identity{
		"jwt-u1":     {UserID: "u1"},
		"fb-a":       {Email: "ann@x.com"},
		"jwt-ghost":  {UserID: "nobody"},
		"jwt-nobody": {},
	}})
	uc.WithClock(fixedClock{t: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	uc.newID = seqIDs("u")
	return uc, users
}

func validRegister() RegisterInput {
	return RegisterInput{
		Name:     "Ann",
		Email:    " Ann@X.com ",
		Password: "secret1",
		Phone:    "555",
		Address:  "1 Main St",
		Answer:   "Football",
	}
}

func TestAuthUsecase_RegisterHashesSecrets(t *testing.T) {
	uc, users := newAuthFixture()

	u, err := uc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.AnswerHash), []byte("football")))

	stored, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestAuthUsecase_RegisterValidation(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()

	in := validRegister()
	in.Password = "123"
	_, err := uc.Register(ctx, in)
	assert.ErrorIs(t, err, udom.ErrInvalidPassword)

	in = validRegister()
	in.Answer = "  "
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, udom.ErrInvalidAnswer)

	in = validRegister()
	in.Email = "not-an-email"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, udom.ErrInvalidEmail)

	_, err = uc.Register(ctx, validRegister())
	require.NoError(t, err)
	_, err = uc.Register(ctx, validRegister())
	assert.ErrorIs(t, err, udom.ErrConflict)
}

func TestAuthUsecase_Login(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	u, tok, err := uc.Login(ctx, "ANN@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "tok-u1", tok)

	_, _, err = uc.Login(ctx, "ann@x.com", "wrong!!")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, _, err = uc.Login(ctx, "bob@x.com", "secret1")
	assert.ErrorIs(t, err, udom.ErrNotFound)

	_, _, err = uc.Login(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAuthUsecase_ForgotPassword(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	assert.ErrorIs(t, uc.ForgotPassword(ctx, "ann@x.com", "baseball", "newpass"), ErrWrongAnswer)
	assert.ErrorIs(t, uc.ForgotPassword(ctx, "bob@x.com", "football", "newpass"), ErrWrongAnswer)

	require.NoError(t, uc.ForgotPassword(ctx, "ann@x.com", " FOOTBALL ", "newpass"))
	_, _, err = uc.Login(ctx, "ann@x.com", "newpass")
	assert.NoError(t, err)
	_, _, err = uc.Login(ctx, "ann@x.com", "secret1")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	u, err := uc.Authenticate(ctx, "jwt-u1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", u.Email)

	u, err = uc.Authenticate(ctx, "fb-a")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	for _, raw := range []string{"garbage", "jwt-ghost", "jwt-nobody"} {
		_, err = uc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrUnauthorized, raw)
	}
}

func TestAuthUsecase_UpdateProfileKeepsBlankFields(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	u, err := uc.UpdateProfile(ctx, "u1", ProfileInput{Name: "Ann B", Password: "another"})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", u.Name)
	assert.Equal(t, "555", u.Phone)
	assert.Equal(t, "1 Main St", u.Address)

	_, _, err = uc.Login(ctx, "ann@x.com", "another")
	assert.NoError(t, err)

	_, err = uc.UpdateProfile(ctx, "u1", ProfileInput{Password: "abc"})
	assert.ErrorIs(t, err, udom.ErrInvalidPassword)
}
