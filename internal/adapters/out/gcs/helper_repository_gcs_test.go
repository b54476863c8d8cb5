package gcs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoObjectPath(t *testing.T) {
	p, err := photoObjectPath(" p/1 ", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "products/p_1/"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)

	other, err := photoObjectPath("p1", "application/octet-stream")
	require.NoError(t, err)
	assert.NotContains(t, other[len("products/p1/"):], ".")

	_, err = photoObjectPath("  ", "image/png")
	assert.Error(t, err)
}
