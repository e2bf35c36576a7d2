package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/gateway"
	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

type gatewayAPI interface {
	Create(ctx context.Context, req subscription.CreateReq) (subscription.Subscription, error)
	Get(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error)
	GetOne(ctx context.Context, id int64) (subscription.Subscription, error)
	Delete(ctx context.Context, id int64) (subscription.DeletionResult, error)
}

type Handlers struct {
	GW  gatewayAPI
	Log *zap.SugaredLogger
}

func NewHandlers(gw *gateway.Gateway, log *zap.SugaredLogger) *Handlers {
	return &Handlers{GW: gw, Log: log}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handlers) Create(c *gin.Context) {
	var req subscription.CreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	sub, err := h.GW.Create(ctx, req)
	if err != nil {
		if errors.Is(err, subscription.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": subscription.ErrConflict.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *Handlers) Get(c *gin.Context) {
	f, err := subscription.FilterFromQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	subs, err := h.GW.Get(ctx, f)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

func (h *Handlers) GetOne(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.GW.GetOne(ctx, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *Handlers) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := h.GW.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}
