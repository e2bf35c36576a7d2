package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/mailer"
	"github.com/Mutter0815/NewsletterHub/internal/subscription"
	"github.com/Mutter0815/NewsletterHub/pkg/metrics"
)

type deliverySource interface {
	Deliveries(ctx context.Context) <-chan amqp.Delivery
}

// Worker consumes email jobs and hands each to the delivery backend, at
// most Concurrency at a time. A failed delivery is logged and the job is
// acked anyway: there is no retry and no dead-letter redrive, silent
// delivery loss is the accepted tradeoff.
type Worker struct {
	Cons        deliverySource
	Mailer      mailer.Mailer
	Concurrency int
	Log         *zap.SugaredLogger
}

func New(cons deliverySource, m mailer.Mailer, concurrency int, log *zap.SugaredLogger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{Cons: cons, Mailer: m, Concurrency: concurrency, Log: log}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs := w.Cons.Deliveries(ctx)
	w.Log.Infow("worker_started", "concurrency", w.Concurrency)

	sem := make(chan struct{}, w.Concurrency)
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			w.Log.Infow("worker_stopping")
			return ctx.Err()

		case d, ok := <-msgs:
			if !ok {
				wg.Wait()
				w.Log.Warnw("delivery_stream_closed")
				return nil
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				w.process(ctx, d)
			}(d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	start := time.Now()
	metrics.WorkerJobsConsumed.Inc()
	defer func() {
		metrics.WorkerProcessDuration.Observe(time.Since(start).Seconds())
	}()

	if d.Type != subscription.JobEmail {
		w.Log.Warnw("unknown_job_type", "type", d.Type)
		_ = d.Ack(false)
		return
	}

	var job subscription.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		w.Log.Warnw("job_unmarshal_error", "error", err)
		_ = d.Ack(false)
		return
	}

	ref, err := w.Mailer.Send(ctx, job)
	if err != nil {
		w.Log.Errorw("send_failed", "to", job.To, "subject", job.Subject, "error", err)
		metrics.WorkerJobsFailed.Inc()
		_ = d.Ack(false)
		return
	}

	metrics.WorkerJobsSent.Inc()
	w.Log.Infow("send_success", "to", job.To, "subject", job.Subject, "preview", ref)
	_ = d.Ack(false)
}
