package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_EncodeDecode(t *testing.T) {
	rec := Record{
		User:  &UserProfile{ID: "u1", Name: "Ann", Email: " a@x.com ", Role: RoleAdmin},
		Token: "tok",
	}

	got, ok := Decode(rec.Encode())
	require.True(t, ok)
	assert.Equal(t, "a@x.com", got.Email())
	assert.True(t, got.Authenticated())
	assert.True(t, got.IsAdmin())
}

func TestDecode_Corrupt(t *testing.T) {
	for _, raw := range []string{"", "{", "not json", `["array"]`} {
		got, ok := Decode(raw)
		assert.False(t, ok, raw)
		assert.Equal(t, Empty(), got)
	}
}

func TestRecord_Guest(t *testing.T) {
	assert.Equal(t, "", Empty().Email())
	assert.False(t, Empty().Authenticated())
	assert.False(t, Empty().IsAdmin())
}

func TestRecord_Clone(t *testing.T) {
	rec := Record{User: &UserProfile{Email: "a@x.com"}, Token: "t"}
	cp := rec.Clone()
	cp.User.Email = "b@x.com"
	assert.Equal(t, "a@x.com", rec.Email())
}
