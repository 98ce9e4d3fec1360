package whatsapp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ruralcart/order-relay/internal/metrics"
)

// State describes where the session bootstrap currently stands.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

const statusConnected = "CONNECTED"

// SessionClient is what the supervisor needs from the gateway: the send
// operations it hands out once ready, plus the bootstrap calls.
type SessionClient interface {
	Sender
	StartSession(ctx context.Context, browserPath string) error
	Status(ctx context.Context) (string, error)
}

// Supervisor owns the messaging session lifecycle. Bootstrap runs in the
// background; requests only ever query the current state and borrow the
// send handle. There is no automatic reconnection: a failed bootstrap
// stays failed until process restart.
type Supervisor struct {
	client      SessionClient
	browserPath string
	log         *slog.Logger

	pollInterval time.Duration
	bootTimeout  time.Duration

	mu    sync.RWMutex
	state State
}

// NewSupervisor creates a supervisor in the Uninitialized state.
func NewSupervisor(client SessionClient, browserPath string, log *slog.Logger) *Supervisor {
	return &Supervisor{
		client:       client,
		browserPath:  browserPath,
		log:          log,
		pollInterval: 3 * time.Second,
		bootTimeout:  2 * time.Minute,
		state:        StateUninitialized,
	}
}

// Start launches session bootstrap in the background and returns
// immediately. Readiness is observed through Ready/Session.
func (s *Supervisor) Start(ctx context.Context) {
	go s.bootstrap(ctx)
}

func (s *Supervisor) bootstrap(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.bootTimeout)
	defer cancel()

	s.log.Info("starting whatsapp session")

	if err := s.client.StartSession(ctx, s.browserPath); err != nil {
		s.log.Error("failed to initialize whatsapp session", "error", err)
		s.setState(StateFailed)
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status, err := s.client.Status(ctx)
		if err != nil {
			s.log.Warn("whatsapp session status check failed", "error", err)
		} else if status == statusConnected {
			s.log.Info("whatsapp session connected")
			s.setState(StateReady)
			return
		} else {
			s.log.Debug("whatsapp session not connected yet", "status", status)
		}

		select {
		case <-ctx.Done():
			s.log.Error("whatsapp session bootstrap timed out", "error", ctx.Err())
			s.setState(StateFailed)
			return
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	metrics.SessionState.Set(float64(state))
}

// State returns the current bootstrap state.
func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready reports whether a send handle is available. This reflects the
// bootstrap outcome, not live connectivity.
func (s *Supervisor) Ready() bool {
	return s.State() == StateReady
}

// Session returns the send handle, or false while the session is not ready.
func (s *Supervisor) Session() (Sender, bool) {
	if !s.Ready() {
		return nil, false
	}
	return s.client, true
}
