package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/pkg/metrics"
)

type publisher interface {
	PublishJSON(ctx context.Context, jobName string, body []byte) error
}

// Producer enqueues jobs best-effort. Any failure is recorded and
// swallowed: a queue outage must never fail the write that triggered the
// job, so nothing here propagates to the caller.
type Producer struct {
	pub publisher
	log *zap.SugaredLogger
}

func NewProducer(pub publisher, log *zap.SugaredLogger) *Producer {
	return &Producer{pub: pub, log: log}
}

func (p *Producer) Enqueue(ctx context.Context, jobName string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Errorw("enqueue_marshal_error", "job", jobName, "error", err)
		metrics.PublishFailuresTotal.Inc()
		return
	}
	if err := p.pub.PublishJSON(ctx, jobName, body); err != nil {
		p.log.Errorw("enqueue_publish_error", "job", jobName, "error", err)
		metrics.PublishFailuresTotal.Inc()
		return
	}
	metrics.PublishedJobsTotal.Inc()
}
