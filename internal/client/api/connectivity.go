package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/logging"
)

// ConnectivityState is the process-wide availability snapshot.
type ConnectivityState struct {
	Available    bool
	Reconnecting bool
}

// ConnectivityMonitor owns the availability flag. Transport failure
// classification reports losses here; a repeating health poll flips the
// flag back once the backend answers. State changes are published to
// subscribers instead of being read from globals.
type ConnectivityMonitor struct {
	cfg        *config.Config
	httpClient *http.Client
	log        logging.Logger

	mu         sync.Mutex
	state      ConnectivityState
	cancelPoll context.CancelFunc
	subs       []chan ConnectivityState
}

func NewConnectivityMonitor(cfg *config.Config, log logging.Logger) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		cfg: cfg,
		// Short timeout: the health probe must answer fast or not at all.
		httpClient: &http.Client{Timeout: cfg.HealthCheckTimeout},
		log:        log,
		state:      ConnectivityState{Available: true},
	}
}

// State returns the current availability snapshot.
func (m *ConnectivityMonitor) State() ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel receiving every state change. The channel is
// buffered; a slow consumer misses intermediate states, never blocks the
// monitor.
func (m *ConnectivityMonitor) Subscribe() <-chan ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan ConnectivityState, 8)
	m.subs = append(m.subs, ch)
	return ch
}

// ReportLoss marks the backend unavailable and starts the reconnection
// poll. Called by the pipeline when a transport failure is classified as
// connectivity-lost.
func (m *ConnectivityMonitor) ReportLoss() {
	m.setState(ConnectivityState{Available: false, Reconnecting: true})
	m.StartPolling(context.Background())
}

// MarkAvailable flips availability to true and stops any running poll.
// Called on app foregrounding.
func (m *ConnectivityMonitor) MarkAvailable() {
	m.stopPoll()
	m.setState(ConnectivityState{Available: true})
}

// StartPolling launches the repeating health poll. The previous poller, if
// any, is cancelled first so only one runs at a time.
func (m *ConnectivityMonitor) StartPolling(ctx context.Context) {
	m.mu.Lock()
	if m.cancelPoll != nil {
		m.cancelPoll()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	m.cancelPoll = cancel
	m.mu.Unlock()

	go m.pollLoop(pollCtx)
}

// StopPolling cancels the running poll, if any.
func (m *ConnectivityMonitor) StopPolling() {
	m.stopPoll()
}

func (m *ConnectivityMonitor) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.probe(ctx) {
				m.log.Info(ctx, "backend reachable again")
				m.stopPoll()
				m.setState(ConnectivityState{Available: true})
				return
			}
			m.setState(ConnectivityState{Available: false, Reconnecting: true})
		}
	}
}

// probe issues one unauthenticated health check. Any status below 400
// counts as "up".
func (m *ConnectivityMonitor) probe(ctx context.Context) bool {
	url := strings.TrimRight(m.cfg.BaseURL, "/") + m.cfg.APIPrefix + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < 400
}

func (m *ConnectivityMonitor) stopPoll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelPoll != nil {
		m.cancelPoll()
		m.cancelPoll = nil
	}
}

func (m *ConnectivityMonitor) setState(s ConnectivityState) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	subs := make([]chan ConnectivityState, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}
