// Package telemetry publishes robot readings to an MQTT broker.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/teslashibe/go-botblocks/internal/log"
)

// TopicMotorsStatus is appended to the topic prefix for motor status.
const TopicMotorsStatus = "motors/status"

// ClientIDPrefix starts every MQTT client id.
const ClientIDPrefix = "botblocks-"

// DefaultConnectTimeout bounds the initial broker connection.
const DefaultConnectTimeout = 10 * time.Second

// ErrNotConnected is returned when publishing while the broker is unreachable.
var ErrNotConnected = errors.New("telemetry: not connected")

// Publisher sends payloads to a topic below its prefix.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close()
}

// Topic joins a prefix and a sub-topic with a single slash.
func Topic(prefix, topic string) string {
	prefix = strings.TrimRight(prefix, "/")
	topic = strings.TrimLeft(topic, "/")
	if prefix == "" {
		return topic
	}
	return prefix + "/" + topic
}

// NewClientID returns a unique client id.
func NewClientID() string {
	return ClientIDPrefix + uuid.New().String()
}

// MQTTPublisher publishes with QoS 0 through paho, reconnecting on its own.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	logger *slog.Logger
}

// Option configures an MQTTPublisher.
type Option func(*options)

type options struct {
	connectTimeout time.Duration
	logger         *slog.Logger
	clientID       string
}

// WithConnectTimeout sets how long Dial waits for the broker.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = d
	}
}

// WithLogger sets the publisher logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClientID overrides the generated client id.
func WithClientID(id string) Option {
	return func(o *options) {
		o.clientID = id
	}
}

// Dial connects to broker (e.g. "tcp://localhost:1883") and returns a
// publisher writing under prefix.
func Dial(broker, prefix string, opts ...Option) (*MQTTPublisher, error) {
	o := options{connectTimeout: DefaultConnectTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.L()
	}
	if o.clientID == "" {
		o.clientID = NewClientID()
	}
	logger := o.logger.With("component", "telemetry", "broker", broker)

	mo := mqtt.NewClientOptions().AddBroker(broker)
	mo.SetClientID(o.clientID)
	mo.SetAutoReconnect(true)
	mo.SetConnectTimeout(o.connectTimeout)
	mo.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("connected to MQTT broker")
	})
	mo.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("lost MQTT connection", "error", err)
	})

	client := mqtt.NewClient(mo)
	token := client.Connect()
	if !token.WaitTimeout(o.connectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("telemetry: connect to %s: timed out after %s", broker, o.connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: connect to %s: %w", broker, err)
	}

	return &MQTTPublisher{client: client, prefix: prefix, logger: logger}, nil
}

// Publish sends payload to prefix/topic and waits for the client to hand it
// off, or for ctx.
func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := p.client.Publish(Topic(p.prefix, topic), 0, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Record is one published payload kept by a Recorder.
type Record struct {
	Topic   string
	Payload []byte
}

// Recorder is an in-memory Publisher for tests and dry runs.
type Recorder struct {
	Prefix string

	mu      sync.Mutex
	records []Record
	closed  bool
}

// Publish records the payload under the full topic.
func (r *Recorder) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrNotConnected
	}
	r.records = append(r.records, Record{
		Topic:   Topic(r.Prefix, topic),
		Payload: append([]byte(nil), payload...),
	})
	return nil
}

// Close makes later publishes fail with ErrNotConnected.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Records returns a copy of what was published.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
