package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Mutter0815/NewsletterHub/internal/mailer"
	"github.com/Mutter0815/NewsletterHub/pkg/config"
	"github.com/Mutter0815/NewsletterHub/pkg/logx"
	"github.com/Mutter0815/NewsletterHub/pkg/rmq"
	"github.com/Mutter0815/NewsletterHub/services/email-worker/worker"
)

func main() {
	log := logx.New()
	defer log.Sync()

	cfg := config.MustLoadWorker()

	cons := rmq.NewConsumer(cfg.RMQURL, cfg.ServiceName, cfg.Queue, cfg.Concurrency, log)

	var m mailer.Mailer
	if cfg.SMTPAddr != "" {
		m = mailer.NewSMTP(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.From)
	} else {
		log.Infow("smtp_not_configured_using_log_mailer")
		m = mailer.NewLog(log)
	}

	w := worker.New(cons, m, cfg.Concurrency, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalw("worker_error", "error", err)
	}
	log.Infow("email-worker stopped gracefully")
}
