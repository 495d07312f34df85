// Package monitor polls GoPiGo3 motor status at a fixed rate and fans the
// readings out to the motor log, websocket clients and MQTT.
package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/gopigo"
	"github.com/teslashibe/go-botblocks/pkg/protocol"
	"github.com/teslashibe/go-botblocks/pkg/telemetry"
)

const (
	// DefaultInterval matches the controller page refresh.
	DefaultInterval = 500 * time.Millisecond

	// errorLogEvery limits error logs to one per window.
	errorLogEvery = 5 * time.Second

	// heartbeatTicks is how often a heartbeat is logged.
	heartbeatTicks = 100
)

// StatusReader reads motor status. *gopigo.Client implements it.
type StatusReader interface {
	MotorsStatus(ctx context.Context) (gopigo.MotorsStatus, error)
}

// Broadcaster pushes a message to live viewers. *hub.Hub implements it.
type Broadcaster interface {
	Publish(msg *protocol.Message) error
}

// Stats counts loop activity.
type Stats struct {
	Ticks     uint64
	Errors    uint64
	LastError error
}

// Monitor polls motor status at a fixed rate.
type Monitor struct {
	reader    StatusReader
	motorLog  *controller.MotorLog
	hub       Broadcaster
	publisher telemetry.Publisher
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	stop     chan struct{}
	stopOnce sync.Once

	mu            sync.Mutex
	stats         Stats
	lastErrorTime time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithBroadcaster sends each reading to websocket clients.
func WithBroadcaster(b Broadcaster) Option {
	return func(m *Monitor) {
		m.hub = b
	}
}

// WithPublisher publishes each reading as JSON on TopicMotorsStatus.
func WithPublisher(p telemetry.Publisher) Option {
	return func(m *Monitor) {
		m.publisher = p
	}
}

// WithLogger sets the monitor logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

// New creates a monitor appending to motorLog.
func New(reader StatusReader, motorLog *controller.MotorLog, opts ...Option) *Monitor {
	m := &Monitor{
		reader:   reader,
		motorLog: motorLog,
		interval: DefaultInterval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.L()
	}
	if m.motorLog == nil {
		m.motorLog = controller.NewMotorLog(0)
	}
	m.logger = m.logger.With("component", "monitor")
	return m
}

// MotorLog returns the log the monitor appends to.
func (m *Monitor) MotorLog() *controller.MotorLog {
	return m.motorLog
}

// Run polls until ctx is done or Stop is called.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// Stop halts the loop. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Stats returns a snapshot of the counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// tick executes one poll cycle.
func (m *Monitor) tick(ctx context.Context) {
	m.mu.Lock()
	m.stats.Ticks++
	ticks := m.stats.Ticks
	m.mu.Unlock()

	pollCtx, cancel := context.WithTimeout(ctx, m.interval*4)
	st, err := m.reader.MotorsStatus(pollCtx)
	cancel()
	if err != nil {
		m.recordError(err)
		return
	}

	line := controller.FormatMotorStatus(m.now(), st)
	// Append before publishing so websocket replays can dedupe by seq
	seq := m.motorLog.Append(line)

	if m.hub != nil {
		msg, err := protocol.NewMotorStatusMessage(seq, line, st)
		if err == nil {
			err = m.hub.Publish(msg)
		}
		if err != nil {
			m.logger.Debug("broadcast failed", "error", err)
		}
	}

	if m.publisher != nil {
		if payload, err := json.Marshal(st); err == nil {
			if err := m.publisher.Publish(ctx, telemetry.TopicMotorsStatus, payload); err != nil {
				m.logger.Debug("publish failed", "error", err)
			}
		}
	}

	if ticks%heartbeatTicks == 0 {
		s := m.Stats()
		m.logger.Debug("heartbeat", "ticks", s.Ticks, "errors", s.Errors)
	}
}

// recordError counts err and logs at most once per errorLogEvery.
func (m *Monitor) recordError(err error) {
	m.mu.Lock()
	m.stats.Errors++
	m.stats.LastError = err
	total := m.stats.Errors
	now := m.now()
	shouldLog := m.lastErrorTime.IsZero() || now.Sub(m.lastErrorTime) > errorLogEvery
	if shouldLog {
		m.lastErrorTime = now
	}
	m.mu.Unlock()

	if shouldLog {
		m.logger.Warn("motor status poll failed", "error", err, "total_errors", total)
	}
}
