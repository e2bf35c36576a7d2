package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/docs"
	"github.com/Mutter0815/NewsletterHub/pkg/metrics"
)

func NewHTTPServer(addr, token string, h *Handlers, log *zap.SugaredLogger) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery(), Observability(log))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", docs.SubscriptionSwaggerHTML)
	})
	r.GET("/docs/subscription-api/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", docs.SubscriptionOpenAPI)
	})

	sub := r.Group("/subscription", Auth(token))
	sub.POST("", h.Create)
	sub.GET("", h.Get)
	sub.GET("/:id", h.GetOne)
	sub.DELETE("/:id", h.Delete)

	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}
