package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	e := ErrForbidden.WithDetail("missing report.update")
	assert.Equal(t, "missing report.update", e.Detail)
	assert.Empty(t, ErrForbidden.Detail)
}

func TestFromError_UnknownIsInternal(t *testing.T) {
	cause := stderrors.New("db down")
	got := FromError(cause)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)
}

func TestFromError_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", ErrNotFound)
	assert.Equal(t, "NOT_FOUND", FromError(wrapped).Code)
}

func TestWriteError_HidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, ErrInternalServerError.WithCause(stderrors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	assert.NotContains(t, rr.Body.String(), "password authentication")
}

func TestTokenErrors_ShareMessage(t *testing.T) {
	assert.Equal(t, ErrTokenMissing.Message, ErrTokenExpired.Message)
	assert.Equal(t, ErrTokenMissing.Message, ErrTokenInvalid.Message)
}
