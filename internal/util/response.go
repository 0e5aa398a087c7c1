package util

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// RespondWithError maps err to its HTTP status and writes the error body.
// Store failures are logged with their cause; the client only sees the
// generic message.
func RespondWithError(c *gin.Context, err error) {
	apiErr := apperrors.From(err)

	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("kind", apiErr.Kind.String()),
		zap.Int("status", apiErr.Status),
		zap.String("path", c.FullPath()),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields = append(fields, logger.WithRequestID(requestID))
	}

	switch {
	case apiErr.Status >= http.StatusInternalServerError:
		logger.ErrorWithFields("API error", apiErr.Err, fields...)
	case apiErr.Status >= http.StatusBadRequest:
		logger.Log.Warn("API error", append(fields, zap.String("message", apiErr.Message))...)
	}
	metrics.RecordError(apiErr.Kind.String(), string(apiErr.Code))

	c.AbortWithStatusJSON(apiErr.Status, ErrorResponse{
		Error: apiErr.Message,
		Code:  string(apiErr.Code),
		Field: apiErr.Field,
	})
}

// BindingError converts a gin binding failure into a validation error
// naming the first offending field.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.ValidationError(lowerFirst(fe.Field()), validationMessage(fe))
	}
	return apperrors.ValidationError("", "malformed request")
}

func validationMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	case "max", "lte":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// lowerFirst turns a Go field name into its JSON spelling: "Limit" is
// "limit", "ID" is "id".
func lowerFirst(s string) string {
	if s == "" || strings.ToUpper(s) == s {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:1]) + s[1:]
}
