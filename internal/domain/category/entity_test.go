package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New(" Home Decor ")
	require.NoError(t, err)
	assert.Equal(t, "Home Decor", c.Name)
	assert.Equal(t, "home-decor", c.Slug)

	_, err = New("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRename(t *testing.T) {
	c := Category{ID: "c1", Name: "Old", Slug: "old"}
	require.NoError(t, c.Rename("New Name"))
	assert.Equal(t, "new-name", c.Slug)
	assert.ErrorIs(t, c.Rename(" "), ErrInvalidName)
}
