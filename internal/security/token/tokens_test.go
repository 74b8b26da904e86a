package tokens

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(16)
	require.NoError(t, err)
	b, err := GenerateOpaqueToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 16)

	_, err = GenerateOpaqueToken(0)
	assert.Error(t, err)
}

func TestNewRefreshMarker_NeverEmpty(t *testing.T) {
	m, err := NewRefreshMarker()
	require.NoError(t, err)
	assert.NotEmpty(t, m)
}
