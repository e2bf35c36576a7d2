package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

type fakeAck struct {
	mu     sync.Mutex
	acks   int
	nacks  int
	rejcts int
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejcts++
	return nil
}

type fakeSource struct {
	ch chan amqp.Delivery
}

func (s *fakeSource) Deliveries(ctx context.Context) <-chan amqp.Delivery { return s.ch }

// slowMailer tracks how many deliveries are in flight at once.
type slowMailer struct {
	inflight int64
	max      int64
	sent     int64
	err      error
}

func (m *slowMailer) Send(ctx context.Context, job subscription.EmailJob) (string, error) {
	cur := atomic.AddInt64(&m.inflight, 1)
	for {
		prev := atomic.LoadInt64(&m.max)
		if cur <= prev || atomic.CompareAndSwapInt64(&m.max, prev, cur) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt64(&m.inflight, -1)
	if m.err != nil {
		return "", m.err
	}
	atomic.AddInt64(&m.sent, 1)
	return "preview-ref", nil
}

func emailDelivery(t *testing.T, ack *fakeAck) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(subscription.EmailJob{
		To:      "a@x.com",
		Subject: "Confirm subscription",
		Text:    "Welcome aboard !",
	})
	if err != nil {
		t.Fatal(err)
	}
	return amqp.Delivery{
		Acknowledger: ack,
		Type:         subscription.JobEmail,
		Body:         body,
	}
}

func runWorker(t *testing.T, m *slowMailer, concurrency int, deliveries []amqp.Delivery) {
	t.Helper()
	src := &fakeSource{ch: make(chan amqp.Delivery)}
	w := New(src, m, concurrency, zap.NewNop().Sugar())

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	for _, d := range deliveries {
		src.ch <- d
	}
	close(src.ch)

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not drain")
	}
}

func TestRun_BoundedConcurrency(t *testing.T) {
	ack := &fakeAck{}
	m := &slowMailer{}

	deliveries := make([]amqp.Delivery, 6)
	for i := range deliveries {
		deliveries[i] = emailDelivery(t, ack)
	}
	runWorker(t, m, 2, deliveries)

	if got := atomic.LoadInt64(&m.max); got > 2 {
		t.Fatalf("in-flight deliveries peaked at %d, cap is 2", got)
	}
	if atomic.LoadInt64(&m.sent) != 6 {
		t.Fatalf("sent %d, want 6", m.sent)
	}
	if ack.acks != 6 {
		t.Fatalf("acks = %d, want 6", ack.acks)
	}
}

func TestRun_DeliveryFailureIsAckedNotRequeued(t *testing.T) {
	ack := &fakeAck{}
	m := &slowMailer{err: errors.New("smtp unavailable")}

	runWorker(t, m, 2, []amqp.Delivery{emailDelivery(t, ack)})

	if ack.acks != 1 {
		t.Fatalf("acks = %d, want 1 (job is finished even on failure)", ack.acks)
	}
	if ack.nacks != 0 || ack.rejcts != 0 {
		t.Fatal("failed delivery must not be requeued")
	}
}

func TestRun_MalformedPayloadIsAcked(t *testing.T) {
	ack := &fakeAck{}
	m := &slowMailer{}

	d := amqp.Delivery{Acknowledger: ack, Type: subscription.JobEmail, Body: []byte("not json")}
	runWorker(t, m, 2, []amqp.Delivery{d})

	if ack.acks != 1 {
		t.Fatalf("acks = %d, want 1", ack.acks)
	}
	if atomic.LoadInt64(&m.sent) != 0 {
		t.Fatal("malformed job must not be delivered")
	}
}

func TestRun_UnknownJobTypeIsSkipped(t *testing.T) {
	ack := &fakeAck{}
	m := &slowMailer{}

	d := emailDelivery(t, ack)
	d.Type = "sms"
	runWorker(t, m, 2, []amqp.Delivery{d})

	if atomic.LoadInt64(&m.sent) != 0 {
		t.Fatal("unknown job type must not be delivered")
	}
	if ack.acks != 1 {
		t.Fatalf("acks = %d, want 1", ack.acks)
	}
}
