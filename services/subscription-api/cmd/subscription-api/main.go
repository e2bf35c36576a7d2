package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mutter0815/NewsletterHub/internal/cache"
	"github.com/Mutter0815/NewsletterHub/internal/gateway"
	"github.com/Mutter0815/NewsletterHub/internal/notify"
	"github.com/Mutter0815/NewsletterHub/internal/store"
	"github.com/Mutter0815/NewsletterHub/pkg/config"
	"github.com/Mutter0815/NewsletterHub/pkg/db"
	"github.com/Mutter0815/NewsletterHub/pkg/logx"
	"github.com/Mutter0815/NewsletterHub/pkg/rmq"
	"github.com/Mutter0815/NewsletterHub/services/subscription-api/server"
)

func main() {
	log := logx.New()
	defer log.Sync()

	cfg := config.MustLoadAPI()

	sqlDB, err := db.Open(cfg.DBDSN)
	if err != nil {
		log.Fatalw("db_open_error", "error", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnw("db_close_error", "error", err)
		}
	}()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	pub, err := rmq.NewPublisher(cfg.RMQURL, cfg.ServiceName, cfg.Queue, log)
	if err != nil {
		log.Fatalw("rmq_init_error", "error", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warnw("rmq_publisher_close_error", "error", err)
		}
	}()

	gw := gateway.New(
		store.New(sqlDB),
		cache.New(rdb, cfg.ServiceName, cfg.CacheTTL),
		notify.NewProducer(pub, log),
		cfg.Token,
		log,
	)

	h := server.NewHandlers(gw, log)
	srv := server.NewHTTPServer(":"+cfg.Port, cfg.Token, h, log)

	go func() {
		log.Infow("api_listen_start", "addr", ":"+cfg.Port)
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
	} else {
		log.Infow("server_shutdown_success")
	}

	log.Infow("subscription-api stopped gracefully")
}
