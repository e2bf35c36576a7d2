package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mutter0815/NewsletterHub/pkg/config"
	"github.com/Mutter0815/NewsletterHub/pkg/logx"
	"github.com/Mutter0815/NewsletterHub/services/public-api/client"
	"github.com/Mutter0815/NewsletterHub/services/public-api/server"
)

func main() {
	log := logx.New()
	defer log.Sync()

	cfg := config.MustLoadPublic()

	api := client.New(cfg.SubscriptionURL, cfg.Token, cfg.RequestTimeout, cfg.MaxRetries, log)
	h := server.NewHandlers(api, log)
	srv := server.NewHTTPServer(":"+cfg.Port, h, log)

	go func() {
		log.Infow("public_api_listen_start", "addr", ":"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http_server_error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Infow("signal_received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server_shutdown_error", "error", err)
	}
	log.Infow("public-api stopped gracefully")
}
