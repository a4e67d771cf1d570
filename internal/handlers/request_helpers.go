package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"amazona/internal/store"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func (h *Handlers) respondWithError(c *gin.Context, status int, route string, message string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("route", route),
		zap.Int("status", status),
		zap.String("message", message),
	)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Debug("request rejected", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// respondStoreError maps store sentinels to 404 and 409 and anything else
// to 500.
func (h *Handlers) respondStoreError(c *gin.Context, route string, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondWithError(c, http.StatusNotFound, route, notFound)
	case errors.Is(err, store.ErrDuplicate):
		h.respondWithError(c, http.StatusConflict, route, "already exists", zap.Error(err))
	default:
		h.respondWithError(c, http.StatusInternalServerError, route, "db error", zap.Error(err))
	}
}

func (h *Handlers) respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			case "min", "max", "gte", "lte":
				details = append(details, fmt.Sprintf("%s is out of range", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		h.log.Debug("validation failed", zap.String("route", route), zap.Strings("details", details))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": strings.Join(details, ", "),
			"details": details,
		})
		return
	}

	h.respondWithError(c, http.StatusBadRequest, route, "invalid body", zap.Error(err))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func (h *Handlers) objectIDParam(c *gin.Context, route, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, route, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
