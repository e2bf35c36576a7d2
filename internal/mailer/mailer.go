package mailer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

// Mailer delivers a single email. The returned reference identifies the
// delivery for logging; it is never persisted.
type Mailer interface {
	Send(ctx context.Context, job subscription.EmailJob) (string, error)
}

// LogMailer "delivers" by logging the message. It is the worker's default
// when no SMTP endpoint is configured, and the fake used in tests.
type LogMailer struct {
	log *zap.SugaredLogger
}

func NewLog(log *zap.SugaredLogger) *LogMailer { return &LogMailer{log: log} }

func (m *LogMailer) Send(_ context.Context, job subscription.EmailJob) (string, error) {
	ref := "log-" + uuid.NewString()
	m.log.Infow("email_preview",
		"ref", ref,
		"to", job.To,
		"subject", job.Subject,
		"text", job.Text,
	)
	return ref, nil
}
