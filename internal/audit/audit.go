package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Action identifies what happened.
type Action string

const (
	ActionSearch       Action = "search.resolved"
	ActionSearchFailed Action = "search.failed"
	ActionExport       Action = "snapshot.exported"
)

// Event is one audit record. Events are observational: emission is
// fire-and-forget and never fails the operation being audited.
type Event struct {
	Action    Action    `json:"action"`
	Strategy  string    `json:"strategy,omitempty"`
	Keyword   string    `json:"keyword,omitempty"`
	Total     int       `json:"total,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink receives serialized events when no broker is configured.
type Sink interface {
	Append(event Event)
}

// MemorySink buffers events in process, mainly for tests and broker-less
// deployments.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(event Event) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Publisher ships audit events to a Kafka topic when brokers are configured,
// otherwise to the fallback sink.
type Publisher struct {
	client *kgo.Client
	topic  string
	sink   Sink
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithSink sets the broker-less fallback sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

// NewPublisher builds a publisher. With no brokers it degrades to the sink;
// with brokers it produces asynchronously and logs delivery failures.
func NewPublisher(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		topic:  topic,
		sink:   NewMemorySink(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if len(brokers) > 0 {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.DefaultProduceTopic(topic),
			kgo.AllowAutoTopicCreation(),
		)
		if err != nil {
			return nil, err
		}
		p.client = client
	}
	return p, nil
}

// Emit publishes one event. Never blocks on broker acknowledgement and never
// returns an error; auditing must not affect the audited operation.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if p.client == nil {
		p.sink.Append(event)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("audit event marshal failed", "action", event.Action, "error", err)
		return
	}
	record := &kgo.Record{Topic: p.topic, Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit event delivery failed", "action", event.Action, "error", err)
		}
	})
}

// Close flushes pending produces and releases the broker connection.
func (p *Publisher) Close() {
	if p.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.client.Flush(ctx)
		p.client.Close()
	}
}
