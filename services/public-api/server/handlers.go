package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
	"github.com/Mutter0815/NewsletterHub/services/public-api/client"
)

type subscriptionAPI interface {
	Create(ctx context.Context, req subscription.CreateReq) (subscription.Subscription, error)
	Get(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error)
	GetOne(ctx context.Context, id int64) (subscription.Subscription, error)
	Delete(ctx context.Context, id int64) (subscription.DeletionResult, error)
}

// Handlers exposes the public surface. Validation happens here at the
// boundary; everything downstream is delegated to the subscription
// service, and its outages are shown to clients as a bare 503.
type Handlers struct {
	API subscriptionAPI
	Log *zap.SugaredLogger
}

func NewHandlers(c *client.Client, log *zap.SugaredLogger) *Handlers {
	return &Handlers{API: c, Log: log}
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

	sub, err := h.API.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
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

	subs, err := h.API.Get(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
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

	sub, err := h.API.GetOne(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
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

	res, err := h.API.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
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

func (h *Handlers) fail(c *gin.Context, err error) {
	var vErr *subscription.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, subscription.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": subscription.ErrConflict.Error()})
	case errors.Is(err, subscription.ErrNotFound):
		c.Status(http.StatusNoContent)
	default:
		// Nothing about the upstream problem reaches the client.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": subscription.ErrUnavailable.Error()})
	}
}
