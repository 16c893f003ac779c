package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/registry"
)

// FieldService reads and writes input fields. *registry.Registry implements it.
type FieldService interface {
	Fields() []models.FieldState
	Field(key string) (models.FieldState, error)
	Spec(key string) (models.FieldSpec, bool)
	Set(key string, value float64) (float64, error)
	SetDate(key, text string) (string, error)
}

// FieldHandler serves the input field endpoints.
type FieldHandler struct {
	fields FieldService
	logger *zap.Logger
}

// NewFieldHandler constructs the field handler.
func NewFieldHandler(fields FieldService, logger *zap.Logger) *FieldHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldHandler{fields: fields, logger: logger}
}

type updateFieldRequest struct {
	Value any `json:"value" binding:"required"`
}

// List returns every field with its current value.
func (h *FieldHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.fields.Fields()})
}

// Get returns one field.
func (h *FieldHandler) Get(c *gin.Context) {
	field, err := h.fields.Field(c.Param("key"))
	if err != nil {
		notFound(c, "unknown field")
		return
	}
	c.JSON(http.StatusOK, field)
}

// Update writes a number (clamped to the field's bounds) or a date.
func (h *FieldHandler) Update(c *gin.Context) {
	key := c.Param("key")
	spec, ok := h.fields.Spec(key)
	if !ok {
		notFound(c, "unknown field")
		return
	}

	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid field payload", zap.String("field", key), zap.Error(err))
		badRequest(c, "invalid request body", map[string]string{"value": "required"})
		return
	}

	var err error
	switch spec.Kind {
	case models.FieldDate:
		text, isText := req.Value.(string)
		if !isText {
			badRequest(c, "date fields take a string value", map[string]string{"value": "invalid_date"})
			return
		}
		_, err = h.fields.SetDate(key, text)
	default:
		number, isNumber := req.Value.(float64)
		if !isNumber {
			badRequest(c, "number fields take a numeric value", map[string]string{"value": "invalid_number"})
			return
		}
		_, err = h.fields.Set(key, number)
	}

	switch {
	case errors.Is(err, registry.ErrInvalidDate):
		badRequest(c, err.Error(), map[string]string{"value": "invalid_date"})
		return
	case errors.Is(err, registry.ErrInvalidValue):
		badRequest(c, err.Error(), map[string]string{"value": "invalid_number"})
		return
	case err != nil:
		h.logger.Error("failed to update field", zap.String("field", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update field"})
		return
	}

	field, err := h.fields.Field(key)
	if err != nil {
		notFound(c, "unknown field")
		return
	}
	c.JSON(http.StatusOK, field)
}
