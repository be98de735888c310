package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingPolicy returns a policy whose sleeps are captured instead of
// performed.
func recordingPolicy(maxRetries int, base time.Duration, slept *[]time.Duration) Policy {
	p := NewPolicy(maxRetries, base)
	p.JitterFactor = 0 // deterministic schedule for assertions
	p.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func TestDo_SucceedsAfterKFailures(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(3, time.Second, &slept)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	if len(slept) != 2 {
		t.Fatalf("slept %d times, want 2", len(slept))
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestDo_ExhaustsRetriesAndPropagatesLastError(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(3, time.Second, &slept)

	sentinel := errors.New("provider down")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Do() = %v, want %v unchanged", err, sentinel)
	}
	if calls != 4 { // initial attempt + 3 retries
		t.Errorf("op called %d times, want 4", calls)
	}
	if len(slept) != 3 {
		t.Errorf("slept %d times, want 3", len(slept))
	}
}

func TestDo_DelaysDoubleThenCap(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(5, time.Second, &slept)
	p.MaxDelay = 4 * time.Second

	_ = p.Do(context.Background(), func() error { return errors.New("always") })

	want := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second, 4 * time.Second,
	}
	if len(slept) != len(want) {
		t.Fatalf("slept %d times, want %d", len(slept), len(want))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestDo_JitterIsBounded(t *testing.T) {
	p := NewPolicy(1, time.Second)
	p.JitterFactor = 0.5
	for i := 0; i < 100; i++ {
		d := p.delay(1)
		if d < time.Second || d > 1500*time.Millisecond {
			t.Fatalf("delay = %v, want within [1s, 1.5s]", d)
		}
	}
}

func TestDo_PermanentErrorPropagatesImmediately(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(3, time.Second, &slept)

	sentinel := errors.New("bad use case")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return Permanent(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Do() = %v, want %v", err, sentinel)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times, want 0", len(slept))
	}
}

func TestDo_ReturnsUnwrappedPermanentError(t *testing.T) {
	p := recordingPolicy(3, time.Second, new([]time.Duration))
	sentinel := errors.New("fatal")
	err := p.Do(context.Background(), func() error { return Permanent(sentinel) })
	if err != sentinel {
		t.Errorf("Do() = %v, want the original error value", err)
	}
}

func TestDo_ContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPolicy(5, time.Second)
	p.sleep = func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	}

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if err == nil {
		t.Fatal("Do() = nil, want error after cancellation")
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestIsPermanent(t *testing.T) {
	base := errors.New("x")
	if IsPermanent(base) {
		t.Error("IsPermanent(plain) = true")
	}
	if !IsPermanent(Permanent(base)) {
		t.Error("IsPermanent(Permanent(err)) = false")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) != nil")
	}
}
