package whatsapp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ruralcart/order-relay/pkg/logger"
)

type scriptedClient struct {
	mu       sync.Mutex
	startErr error
	statuses []string // consumed one per Status call; last repeats
	i        int
}

func (c *scriptedClient) SendText(ctx context.Context, to, text string) error {
	return nil
}

func (c *scriptedClient) SendImage(ctx context.Context, to, filePath, fileName, caption string) error {
	return nil
}

func (c *scriptedClient) StartSession(ctx context.Context, browserPath string) error {
	return c.startErr
}

func (c *scriptedClient) Status(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.statuses) == 0 {
		return "", errors.New("no status")
	}
	status := c.statuses[c.i]
	if c.i < len(c.statuses)-1 {
		c.i++
	}
	return status, nil
}

func waitForState(t *testing.T, s *Supervisor, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %v, want %v within deadline", s.State(), want)
}

func TestSupervisor_BecomesReadyOnceConnected(t *testing.T) {
	client := &scriptedClient{statuses: []string{"INITIALIZING", "QRCODE", "CONNECTED"}}

	s := NewSupervisor(client, "", logger.New("error"))
	s.pollInterval = 5 * time.Millisecond

	if s.State() != StateUninitialized {
		t.Errorf("initial state = %v, want StateUninitialized", s.State())
	}
	if _, ok := s.Session(); ok {
		t.Error("Session() available before bootstrap")
	}

	s.Start(context.Background())
	waitForState(t, s, StateReady)

	if !s.Ready() {
		t.Error("Ready() = false after connect")
	}
	sender, ok := s.Session()
	if !ok || sender == nil {
		t.Error("Session() unavailable after connect")
	}
}

func TestSupervisor_StartSessionFailure(t *testing.T) {
	client := &scriptedClient{startErr: errors.New("gateway unreachable")}

	s := NewSupervisor(client, "", logger.New("error"))
	s.pollInterval = 5 * time.Millisecond

	s.Start(context.Background())
	waitForState(t, s, StateFailed)

	if s.Ready() {
		t.Error("Ready() = true after failed bootstrap")
	}
	if _, ok := s.Session(); ok {
		t.Error("Session() available after failed bootstrap")
	}
}

func TestSupervisor_BootstrapTimeout(t *testing.T) {
	client := &scriptedClient{statuses: []string{"QRCODE"}}

	s := NewSupervisor(client, "", logger.New("error"))
	s.pollInterval = 5 * time.Millisecond
	s.bootTimeout = 30 * time.Millisecond

	s.Start(context.Background())
	waitForState(t, s, StateFailed)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
