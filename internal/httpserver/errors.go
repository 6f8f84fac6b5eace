package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"storefront/internal/domain"
)

// writeError maps domain errors onto HTTP responses.
func (a *api) writeError(c *gin.Context, err error) {
	status, body := a.errorResponse(c, err)
	c.JSON(status, body)
}

// abort is writeError for middleware.
func (a *api) abort(c *gin.Context, err error) {
	status, body := a.errorResponse(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (a *api) errorResponse(c *gin.Context, err error) (int, gin.H) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"errors": verr.Fields}
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, gin.H{"errors": map[string]string{"order_items": err.Error()}}
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, gin.H{"message": err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, gin.H{"message": err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"message": "login required"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, gin.H{"message": "forbidden"}
	}
	_ = c.Error(err)
	a.logger.Error("request failed",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	return http.StatusInternalServerError, gin.H{"message": "internal error"}
}

var registerTagNamesOnce sync.Once

// registerFormTagNames makes binding errors report form field names instead of Go field names.
func registerFormTagNames() {
	registerTagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindError converts a gin binding failure into a field-level validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &domain.ValidationError{}
		for _, fe := range verrs {
			out.Add(fe.Field(), fieldMessage(fe))
		}
		return out
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return domain.NewValidationError("form", "invalid number "+strconv.Quote(numErr.Num))
	}
	return domain.NewValidationError("form", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte", "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "email":
		return fe.Field() + " is not valid"
	}
	return fe.Field() + " is invalid"
}
