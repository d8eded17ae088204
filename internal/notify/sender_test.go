package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedSender struct {
	name     string
	failures int // fail this many calls, then succeed
	calls    int
}

func (s *scriptedSender) Name() string { return s.name }

func (s *scriptedSender) Send(_ context.Context, _ string, _ Purpose, _ string) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("boom")
	}
	return nil
}

func TestChainFirstProviderWins(t *testing.T) {
	a := &scriptedSender{name: "a"}
	b := &scriptedSender{name: "b"}
	chain := NewChain(a, b)
	chain.Backoff = time.Millisecond

	if err := chain.Send(context.Background(), "x@x.com", PurposeEmailVerify, "123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if a.calls != 1 || b.calls != 0 {
		t.Fatalf("expected only the first provider to run, got a=%d b=%d", a.calls, b.calls)
	}
}

func TestChainRetriesThenFallsThrough(t *testing.T) {
	a := &scriptedSender{name: "a", failures: 99}
	b := &scriptedSender{name: "b", failures: 1}
	chain := NewChain(a, b)
	chain.Backoff = time.Millisecond

	if err := chain.Send(context.Background(), "x@x.com", PurposeEmailReset, "123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if a.calls != 2 {
		t.Fatalf("first provider must get its bounded retries, got %d", a.calls)
	}
	if b.calls != 2 {
		t.Fatalf("second provider retried once then succeeded, got %d", b.calls)
	}
}

func TestChainAllFail(t *testing.T) {
	a := &scriptedSender{name: "a", failures: 99}
	chain := NewChain(a)
	chain.Backoff = time.Millisecond

	err := chain.Send(context.Background(), "x@x.com", PurposeSMSVerify, "123456")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
}

func TestChainHonorsContext(t *testing.T) {
	a := &scriptedSender{name: "a", failures: 99}
	chain := NewChain(a)
	chain.Backoff = time.Minute // would stall without cancellation

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := chain.Send(ctx, "x@x.com", PurposeSMSReset, "123456")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
