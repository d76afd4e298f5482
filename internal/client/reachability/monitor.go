// Package reachability decides whether the network is up by dialing a few
// well-known endpoints, independently of the note server itself.
package reachability

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/notekeeper/internal/events"
)

const (
	// DefaultTimeout bounds a single dial attempt.
	DefaultTimeout = 3 * time.Second
	// DefaultInterval is the probe period used by Run when none is given.
	DefaultInterval = 30 * time.Second

	defaultBuffer = 8
)

// DefaultHosts are probed when no hosts are configured.
var DefaultHosts = []string{"1.1.1.1:53", "8.8.8.8:53", "9.9.9.9:443"}

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Monitor tracks connectivity and reports transitions.
// Initial state is offline, so the first successful probe is a reconnect.
type Monitor struct {
	dialer  Dialer
	sink    events.Sink
	logger  *slog.Logger
	events  chan events.Event
	hosts   []string
	timeout time.Duration
	online  atomic.Bool
	tickMu  sync.Mutex
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDialer replaces the network dialer.
func WithDialer(d Dialer) Option {
	return func(m *Monitor) { m.dialer = d }
}

// WithSink also publishes transitions to sink.
func WithSink(sink events.Sink) Option {
	return func(m *Monitor) { m.sink = events.OrNop(sink) }
}

// WithBuffer sets the capacity of the Events channel.
func WithBuffer(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.events = make(chan events.Event, n)
		}
	}
}

// NewMonitor creates a monitor probing hosts ("host:port") over TCP.
func NewMonitor(hosts []string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Monitor {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	m := &Monitor{
		dialer:  &net.Dialer{},
		sink:    events.Nop,
		logger:  logger,
		events:  make(chan events.Event, defaultBuffer),
		hosts:   hosts,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Probe reports whether at least one host accepts a connection.
// Hosts are tried in order; the first success wins.
func (m *Monitor) Probe(ctx context.Context) bool {
	for _, host := range m.hosts {
		if ctx.Err() != nil {
			return false
		}

		dialCtx, cancel := context.WithTimeout(ctx, m.timeout)
		conn, err := m.dialer.DialContext(dialCtx, "tcp", host)
		cancel()
		if err != nil {
			// Недоступность хоста это ожидаемый сигнал, а не ошибка
			m.logger.Debug("Probe failed", "host", host, "error", err)
			continue
		}
		_ = conn.Close()
		return true
	}
	return false
}

// Tick probes once and returns the transition event, if the state changed.
// Unchanged state produces no event, and neither does a probe cut short by ctx.
func (m *Monitor) Tick(ctx context.Context) (events.Event, bool) {
	m.tickMu.Lock()
	defer m.tickMu.Unlock()

	online := m.Probe(ctx)
	if ctx.Err() != nil {
		// отмена контекста не говорит о состоянии сети
		return events.Event{}, false
	}
	if m.online.Swap(online) == online {
		return events.Event{}, false
	}

	kind := events.KindDisconnected
	if online {
		kind = events.KindReconnected
	}
	ev := events.New(kind)

	m.logger.Info("Connectivity changed", "online", online)
	m.emit(ctx, ev)
	return ev, true
}

// IsOnline returns the last known state without blocking.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Events returns the channel transitions are delivered on.
func (m *Monitor) Events() <-chan events.Event {
	return m.events
}

// Run ticks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	m.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

func (m *Monitor) emit(ctx context.Context, ev events.Event) {
	select {
	case m.events <- ev:
	default:
		m.logger.Debug("Event channel full, dropping transition", "kind", ev.Kind)
	}
	m.sink.Publish(ctx, ev)
}
