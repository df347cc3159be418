package videos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type sweeperStub struct {
	mu    sync.Mutex
	ids   []string
	err   error
	calls int
}

func (s *sweeperStub) SweepAutoPrivate(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ids, nil
}

func TestPrivacySweeperRunOnce(t *testing.T) {
	stub := &sweeperStub{ids: []string{"v1", "v2"}}
	sweeper := NewPrivacySweeper(stub, time.Hour, nil)

	sweeper.RunOnce(context.Background())

	stub.mu.Lock()
	calls := stub.calls
	stub.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected one sweep, got %d", calls)
	}
}

func TestPrivacySweeperRunOnceError(t *testing.T) {
	stub := &sweeperStub{err: errors.New("db down")}
	sweeper := NewPrivacySweeper(stub, time.Hour, nil)

	// Must not panic or propagate; failures are logged and retried next tick.
	sweeper.RunOnce(context.Background())
}

func TestPrivacySweeperStartAndShutdown(t *testing.T) {
	stub := &sweeperStub{}
	sweeper := NewPrivacySweeper(stub, 5*time.Millisecond, nil)

	sweeper.Start()

	deadline := time.Now().Add(time.Second)
	for {
		stub.mu.Lock()
		calls := stub.calls
		stub.mu.Unlock()
		if calls > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected at least one sweep before deadline")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sweeper.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestPrivacySweeperShutdownWithoutStart(t *testing.T) {
	sweeper := NewPrivacySweeper(&sweeperStub{}, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sweeper.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
