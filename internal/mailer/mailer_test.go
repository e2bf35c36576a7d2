package mailer

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

var confirmJob = subscription.EmailJob{
	To:      "a@x.com",
	Subject: "Confirm subscription",
	Text:    "Welcome aboard !",
	HTML:    "<h1>Welcome aboard !</h1>",
}

func TestLogMailer_ReturnsRef(t *testing.T) {
	m := NewLog(zap.NewNop().Sugar())

	ref, err := m.Send(context.Background(), confirmJob)
	if err != nil {
		t.Fatal(err)
	}
	if ref == "" {
		t.Fatal("want non-empty preview ref")
	}
}

func TestBuildMessage_MultipartWhenBothBodies(t *testing.T) {
	msg, err := buildMessage("noreply@newsletterhub.io", "msg-1", confirmJob)
	if err != nil {
		t.Fatal(err)
	}
	s := string(msg)

	for _, want := range []string{
		"From: noreply@newsletterhub.io",
		"To: a@x.com",
		"Subject: Confirm subscription",
		"multipart/alternative",
		"Welcome aboard !",
		"<h1>Welcome aboard !</h1>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestBuildMessage_PlainTextOnly(t *testing.T) {
	job := subscription.EmailJob{To: "a@x.com", Subject: "s", Text: "hello"}
	msg, err := buildMessage("noreply@newsletterhub.io", "msg-2", job)
	if err != nil {
		t.Fatal(err)
	}
	s := string(msg)
	if strings.Contains(s, "multipart") {
		t.Fatal("single-body message must not be multipart")
	}
	if !strings.Contains(s, "Content-Type: text/plain") || !strings.Contains(s, "hello") {
		t.Fatalf("got %s", s)
	}
}
