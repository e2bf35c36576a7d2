package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"

	"github.com/google/uuid"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

// SMTPMailer delivers over plain SMTP. Auth is used only when a user is
// configured.
type SMTPMailer struct {
	addr string
	user string
	pass string
	from string
}

func NewSMTP(addr, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, user: user, pass: pass, from: from}
}

func (m *SMTPMailer) Send(_ context.Context, job subscription.EmailJob) (string, error) {
	from := job.From
	if from == "" {
		from = m.from
	}
	msgID := uuid.NewString()

	msg, err := buildMessage(from, msgID, job)
	if err != nil {
		return "", err
	}

	var auth smtp.Auth
	if m.user != "" {
		host, _, err := net.SplitHostPort(m.addr)
		if err != nil {
			return "", fmt.Errorf("smtp addr %q: %w", m.addr, err)
		}
		auth = smtp.PlainAuth("", m.user, m.pass, host)
	}

	if err := smtp.SendMail(m.addr, auth, from, []string{job.To}, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return msgID, nil
}

func buildMessage(from, msgID string, job subscription.EmailJob) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", job.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", job.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s@newsletterhub>\r\n", msgID)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case job.HTML != "" && job.Text != "":
		w := multipart.NewWriter(&b)
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", w.Boundary())
		if err := writePart(w, "text/plain; charset=utf-8", job.Text); err != nil {
			return nil, err
		}
		if err := writePart(w, "text/html; charset=utf-8", job.HTML); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case job.HTML != "":
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(job.HTML)
	default:
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(job.Text)
	}
	return b.Bytes(), nil
}

func writePart(w *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{"Content-Type": {contentType}}
	p, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = p.Write([]byte(body))
	return err
}
