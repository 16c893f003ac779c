package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
	"github.com/mamadbah2/chickenfarm/internal/service/commands"
)

// CommandService executes farm commands. *commands.Service implements it.
type CommandService interface {
	RecordPurchase(ctx context.Context, req models.PurchaseRequest) (models.Purchase, error)
	RecordDailyEggs(ctx context.Context, req models.EggCollectionRequest) (models.EggCollection, error)
	ResetDailyEggs() error
	ResetPurchaseInputs() error
}

// CommandHandler serves the command endpoints.
type CommandHandler struct {
	svc    CommandService
	logger *zap.Logger
}

// NewCommandHandler constructs the command handler.
func NewCommandHandler(svc CommandService, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{svc: svc, logger: logger}
}

// RecordPurchase routes a purchase onto the farm fields.
func (h *CommandHandler) RecordPurchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		badRequest(c, "invalid request body", nil)
		return
	}

	purchase, err := h.svc.RecordPurchase(c.Request.Context(), req)
	switch {
	case errors.Is(err, commands.ErrUnknownPurchaseType):
		badRequest(c, err.Error(), map[string]string{"purchase_type": "unknown_purchase_type"})
		return
	case errors.Is(err, commands.ErrInvalidArguments):
		badRequest(c, err.Error(), argumentFields(err))
		return
	case err != nil:
		h.logger.Error("failed to record purchase", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// RecordDailyEggs records today's collection.
func (h *CommandHandler) RecordDailyEggs(c *gin.Context) {
	var req models.EggCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid egg collection payload", zap.Error(err))
		badRequest(c, "invalid request body", nil)
		return
	}

	collection, err := h.svc.RecordDailyEggs(c.Request.Context(), req)
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		badRequest(c, err.Error(), argumentFields(err))
		return
	case err != nil:
		h.logger.Error("failed to record daily eggs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record daily eggs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// ResetDailyEggs zeroes the daily egg fields.
func (h *CommandHandler) ResetDailyEggs(c *gin.Context) {
	h.reset(c, "daily eggs", h.svc.ResetDailyEggs)
}

// ResetPurchaseInputs zeroes the purchase scratch inputs.
func (h *CommandHandler) ResetPurchaseInputs(c *gin.Context) {
	h.reset(c, "purchase inputs", h.svc.ResetPurchaseInputs)
}

func (h *CommandHandler) reset(c *gin.Context, what string, fn func() error) {
	if err := fn(); err != nil {
		h.logger.Error("reset failed", zap.String("target", what), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset " + what})
		return
	}
	c.Status(http.StatusNoContent)
}

func argumentFields(err error) map[string]string {
	var arg *commands.ArgumentError
	if !errors.As(err, &arg) {
		return nil
	}
	return map[string]string{arg.Field: arg.Code}
}
