package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/labauth/internal/store/memory"
)

func TestOpen(t *testing.T) {
	st, err := Open(context.Background(), Config{Driver: "Memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st)
	assert.NoError(t, st.Ping(context.Background()))

	_, err = Open(context.Background(), Config{Driver: "mongo"})
	assert.ErrorContains(t, err, "unsupported driver")
}
