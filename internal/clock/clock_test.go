package clock

import (
	"testing"
	"time"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	clk := NewFake()
	var order []string
	clk.AfterFunc(30*time.Millisecond, func() { order = append(order, "b") })
	clk.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })

	clk.Advance(5 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}

	clk.Advance(50 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
}

func TestFake_StopAndReset(t *testing.T) {
	clk := NewFake()
	fired := 0
	timer := clk.AfterFunc(10*time.Millisecond, func() { fired++ })

	if !timer.Stop() {
		t.Error("Stop on an armed timer should report true")
	}
	clk.Advance(20 * time.Millisecond)
	if fired != 0 {
		t.Fatal("stopped timer fired")
	}

	// Reset rearms relative to the current fake time.
	timer.Reset(15 * time.Millisecond)
	clk.Advance(10 * time.Millisecond)
	if fired != 0 {
		t.Fatal("timer fired before its new deadline")
	}
	clk.Advance(10 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestFake_CallbackMayArmNewTimer(t *testing.T) {
	clk := NewFake()
	var fired []string
	clk.AfterFunc(10*time.Millisecond, func() {
		fired = append(fired, "first")
		clk.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "second") })
	})

	clk.Advance(30 * time.Millisecond)
	if len(fired) != 2 || fired[1] != "second" {
		t.Fatalf("fired = %v, want chained timer to run", fired)
	}
}

func TestFake_NowAdvances(t *testing.T) {
	clk := NewFake()
	start := clk.Now()
	clk.Advance(time.Second)
	if got := clk.Now().Sub(start); got != time.Second {
		t.Errorf("elapsed = %v, want 1s", got)
	}
}
