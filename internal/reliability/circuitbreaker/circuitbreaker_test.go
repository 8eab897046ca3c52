package circuitbreaker

import (
	"testing"
	"time"
)

func TestTripsOpenAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 1, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if !cb.AllowRequest() {
		t.Fatal("breaker tripped before the threshold")
	}

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open", cb.GetState())
	}
	if cb.AllowRequest() {
		t.Error("open breaker must refuse requests")
	}
}

func TestHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 1, time.Millisecond)

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	time.Sleep(5 * time.Millisecond)
	if !cb.AllowRequest() {
		t.Fatal("expected a probe request after the timeout")
	}
	if cb.GetState() != StateHalfOpen {
		t.Errorf("state = %v, want half-open", cb.GetState())
	}

	cb.RecordSuccess()
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after success threshold", cb.GetState())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, time.Millisecond)

	cb.RecordFailure()
	time.Sleep(5 * time.Millisecond)
	if !cb.AllowRequest() {
		t.Fatal("expected a probe request after the timeout")
	}

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want reopened", cb.GetState())
	}
}

func TestStateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker(1, 1, time.Minute)

	var transitions []State
	cb.SetStateChangeCallback(func(from, to State) {
		transitions = append(transitions, to)
	})

	cb.RecordFailure()
	if len(transitions) != 1 || transitions[0] != StateOpen {
		t.Errorf("transitions = %v", transitions)
	}
}
