package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

type recordingPublisher struct {
	jobs   []string
	bodies [][]byte
	err    error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, jobName string, body []byte) error {
	p.jobs = append(p.jobs, jobName)
	p.bodies = append(p.bodies, body)
	return p.err
}

func TestEnqueue_PublishesJSON(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProducer(pub, zap.NewNop().Sugar())

	p.Enqueue(context.Background(), subscription.JobEmail, subscription.EmailJob{
		To:      "a@x.com",
		Subject: "Confirm subscription",
	})

	if len(pub.jobs) != 1 || pub.jobs[0] != subscription.JobEmail {
		t.Fatalf("got jobs %v", pub.jobs)
	}
	var job subscription.EmailJob
	if err := json.Unmarshal(pub.bodies[0], &job); err != nil {
		t.Fatal(err)
	}
	if job.To != "a@x.com" {
		t.Fatalf("got %+v", job)
	}
}

func TestEnqueue_SwallowsPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	p := NewProducer(pub, zap.NewNop().Sugar())

	// must not panic, must not propagate
	p.Enqueue(context.Background(), subscription.JobEmail, subscription.EmailJob{To: "a@x.com"})

	if len(pub.jobs) != 1 {
		t.Fatalf("publish attempts = %d, want 1", len(pub.jobs))
	}
}

func TestEnqueue_SwallowsMarshalFailure(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProducer(pub, zap.NewNop().Sugar())

	p.Enqueue(context.Background(), "email", make(chan int))

	if len(pub.jobs) != 0 {
		t.Fatal("unmarshalable payload must not reach the queue")
	}
}
