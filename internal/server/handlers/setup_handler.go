package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/service/setup"
)

// SetupService runs the setup and options flows. *setup.Service implements it.
type SetupService interface {
	Begin(ctx context.Context) (setup.Form, error)
	Submit(ctx context.Context, in setup.Input) (setup.Form, error)
	Options(ctx context.Context) (setup.Form, error)
	SubmitOptions(ctx context.Context, in setup.Input) (setup.Form, error)
}

// SetupHandler serves the setup endpoints.
type SetupHandler struct {
	svc    SetupService
	logger *zap.Logger
}

// NewSetupHandler constructs the setup handler.
func NewSetupHandler(svc SetupService, logger *zap.Logger) *SetupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetupHandler{svc: svc, logger: logger}
}

// Begin returns the setup form, or the aborted state once configured.
func (h *SetupHandler) Begin(c *gin.Context) {
	form, err := h.svc.Begin(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// Submit completes setup.
func (h *SetupHandler) Submit(c *gin.Context) {
	var in setup.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}

	form, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

// Options returns the options form.
func (h *SetupHandler) Options(c *gin.Context) {
	form, err := h.svc.Options(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// SubmitOptions overwrites the stored configuration.
func (h *SetupHandler) SubmitOptions(c *gin.Context) {
	var in setup.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}

	form, err := h.svc.SubmitOptions(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *SetupHandler) fail(c *gin.Context, err error) {
	var verr *setup.ValidationError
	switch {
	case errors.As(err, &verr):
		badRequest(c, "invalid farm configuration", verr.Fields)
	case errors.Is(err, setup.ErrAlreadyConfigured):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, setup.ErrNotConfigured):
		notFound(c, err.Error())
	default:
		h.logger.Error("setup flow failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "setup failed"})
	}
}
