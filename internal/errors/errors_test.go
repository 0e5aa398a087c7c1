package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusCodes(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindSelfReference, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.StatusCode())
		})
	}
}

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("follow: %w", ErrAlreadyFollowing)

	assert.ErrorIs(t, wrapped, ErrAlreadyFollowing)
	assert.NotErrorIs(t, wrapped, ErrNotFollowing)
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, KindSelfReference, KindOf(ErrSelfFollow))
}

func TestStoreHidesCause(t *testing.T) {
	cause := stderrors.New("pq: connection refused on 10.0.0.4")
	err := Store(cause)

	assert.Equal(t, KindStore, err.Kind)
	assert.Equal(t, ErrInternalError, err.Code)
	assert.NotContains(t, err.Message, "10.0.0.4")
	assert.ErrorIs(t, err, cause)
}

func TestStoreKeepsTypedErrors(t *testing.T) {
	nf := NotFound("post")
	assert.Same(t, nf, Store(fmt.Errorf("lookup: %w", nf)))
	assert.Nil(t, Store(nil))
}

func TestStoreTimeout(t *testing.T) {
	err := Store(fmt.Errorf("query: %w", context.DeadlineExceeded))

	assert.Equal(t, ErrTimeout, err.Code)
	assert.Equal(t, http.StatusGatewayTimeout, err.Status)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsTimeout(Store(stderrors.New("boom"))))
}

func TestKindOfUnknownIsStore(t *testing.T) {
	assert.Equal(t, KindStore, KindOf(stderrors.New("boom")))
	assert.True(t, IsKind(ValidationError("limit", "bad"), KindValidation))
	assert.False(t, IsKind(nil, KindValidation))
}
