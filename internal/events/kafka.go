package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/k-javaman/my-practices/internal/observability"
)

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 5 * time.Second
)

// ErrQueueFull is returned by Publish when the delivery queue is saturated;
// the event is dropped.
var ErrQueueFull = errors.New("kafka: publish queue full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("kafka: publisher closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type pending struct {
	typ Type
	msg kafka.Message
}

// KafkaPublisher writes auth events keyed by user id so one user's events
// keep their order within a partition. Publish only enqueues; a single
// background goroutine owns the writer, so a slow or unreachable broker never
// holds up the caller.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *slog.Logger

	queue     chan pending
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		// flush every event immediately
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}, defaultQueueSize, defaultWriteTimeout, logger)
}

func newKafkaPublisher(w messageWriter, queueSize int, timeout time.Duration, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &KafkaPublisher{
		writer:  w,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan pending, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish encodes e and hands it to the delivery goroutine without waiting
// for the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := toMessage(e)
	if err != nil {
		observability.RecordEventPublish(ctx, string(e.Type), "encode_error")
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- pending{typ: e.Type, msg: msg}:
		return nil
	default:
		observability.RecordEventPublish(ctx, string(e.Type), "dropped")
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for item := range p.queue {
		p.deliver(item)
	}
}

func (p *KafkaPublisher) deliver(item pending) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, item.msg); err != nil {
		observability.RecordEventPublish(ctx, string(item.typ), "error")
		p.logger.Warn("kafka event delivery failed", "type", string(item.typ), "key", string(item.msg.Key), "error", err.Error())
		return
	}
	observability.RecordEventPublish(ctx, string(item.typ), "success")
}

// Close stops accepting events, flushes what is queued and closes the writer.
func (p *KafkaPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		<-p.done
		err = p.writer.Close()
	})
	return err
}

func toMessage(e Event) (kafka.Message, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.UserID), 10)),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}, nil
}
