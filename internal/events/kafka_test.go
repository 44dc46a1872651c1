package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	mu      sync.Mutex
	msgs    []kafka.Message
	err     error
	closed  bool
	started chan struct{}
	release chan struct{}
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.started != nil {
		w.started <- struct{}{}
	}
	if w.release != nil {
		select {
		case <-w.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) delivered() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, 4, time.Second, quietLogger())
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := p.Publish(context.Background(), Event{Type: UserRegistered, UserID: 42, Email: "ana@x.com", OccurredAt: at}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	msgs := w.delivered()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]
	if string(msg.Key) != "42" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != string(UserRegistered) {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
	var got Event
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if got.Email != "ana@x.com" || got.Type != UserRegistered || !got.OccurredAt.Equal(at) {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestKafkaPublisherDoesNotWaitForBroker(t *testing.T) {
	w := &recordingWriter{started: make(chan struct{}, 1), release: make(chan struct{})}
	p := newKafkaPublisher(w, 4, time.Minute, quietLogger())

	returned := make(chan error, 1)
	go func() {
		returned <- p.Publish(context.Background(), Event{Type: UserAuthenticated, UserID: 1})
	}()
	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled broker write")
	}

	<-w.started
	close(w.release)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n := len(w.delivered()); n != 1 {
		t.Fatalf("expected queued event to be flushed on close, got %d", n)
	}
}

func TestKafkaPublisherDropsWhenQueueIsFull(t *testing.T) {
	w := &recordingWriter{started: make(chan struct{}, 1), release: make(chan struct{})}
	p := newKafkaPublisher(w, 1, time.Minute, quietLogger())
	ctx := context.Background()

	if err := p.Publish(ctx, Event{Type: UserRegistered, UserID: 1}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	<-w.started // first event is now stuck in the writer
	if err := p.Publish(ctx, Event{Type: UserRegistered, UserID: 2}); err != nil {
		t.Fatalf("second publish should fit the queue: %v", err)
	}
	if err := p.Publish(ctx, Event{Type: UserRegistered, UserID: 3}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(w.release)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n := len(w.delivered()); n != 2 {
		t.Fatalf("expected 2 delivered events, got %d", n)
	}
}

func TestKafkaPublisherSurvivesWriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, 4, time.Second, quietLogger())

	if err := p.Publish(context.Background(), Event{Type: UserAuthenticated, UserID: 7}); err != nil {
		t.Fatalf("delivery errors must not reach the caller: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(w.delivered()) != 0 {
		t.Fatal("failed write must not be recorded as delivered")
	}
}

func TestKafkaPublisherStampsMissingTime(t *testing.T) {
	msg, err := toMessage(Event{Type: UserLoggedOut, UserID: 1})
	if err != nil {
		t.Fatalf("toMessage: %v", err)
	}
	if msg.Time.IsZero() {
		t.Fatal("expected occurred_at to be stamped")
	}
}

func TestKafkaPublisherCloseIsIdempotent(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, 1, time.Second, quietLogger())
	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("expected writer closed, err=%v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := p.Publish(context.Background(), Event{Type: UserLoggedOut, UserID: 1}); !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got %v", err)
	}
}

func TestNewKafkaPublisherFlushesEachEvent(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:9"}, "auth.events", quietLogger())
	kw, ok := p.writer.(*kafka.Writer)
	if !ok {
		t.Fatalf("unexpected writer %T", p.writer)
	}
	if kw.BatchSize != 1 || kw.BatchTimeout > 50*time.Millisecond {
		t.Fatalf("writer would hold events: batch_size=%d batch_timeout=%s", kw.BatchSize, kw.BatchTimeout)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
