package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondWithError(c, err)
	return w
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", apperrors.NotFound("post"), http.StatusNotFound, "NOT_FOUND", ""},
		{"conflict", apperrors.ErrAlreadyLiked, http.StatusBadRequest, "ALREADY_LIKED", ""},
		{"self reference", apperrors.ErrSelfFollow, http.StatusBadRequest, "SELF_REFERENCE", ""},
		{"unauthorized", apperrors.Unauthorized("no token provided"), http.StatusUnauthorized, "UNAUTHORIZED", "no token provided"},
		{"raw error hides cause", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := respond(tt.err)
			assert.Equal(t, tt.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body.Error)
			}
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestRespondWithValidationField(t *testing.T) {
	w := respond(apperrors.ValidationError("cursor", "cursor must be an RFC 3339 timestamp"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"cursor must be an RFC 3339 timestamp","code":"VALIDATION_ERROR","field":"cursor"}`, w.Body.String())
}

func TestBindingError(t *testing.T) {
	type query struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=99", nil)

	var q query
	err := c.ShouldBindQuery(&q)
	require.Error(t, err)

	apiErr := apperrors.From(BindingError(err))
	assert.Equal(t, apperrors.KindValidation, apiErr.Kind)
	assert.Equal(t, "limit", apiErr.Field)
	assert.Equal(t, "limit must be at most 50", apiErr.Message)

	assert.Equal(t, "id", lowerFirst("ID"))
	assert.Equal(t, "postId", lowerFirst("PostId"))
}

func TestGetUserIDFromContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserIDFromContext(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetUserID(c2, "user-1")
	userID, ok := GetUserIDFromContext(c2)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
