package infra

import (
	"context"
	"testing"
	"time"
)

func TestPacerFirstCallImmediate(t *testing.T) {
	p := NewPacer(100 * time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first Wait took %v, want immediate", elapsed)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	const interval = 60 * time.Millisecond
	p := NewPacer(interval)
	ctx := context.Background()

	var stamps []time.Time
	for i := 0; i < 4; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
		stamps = append(stamps, time.Now())
	}

	// Small slack for scheduling jitter between the pacer's stamp and ours.
	const slack = 5 * time.Millisecond
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < interval-slack {
			t.Errorf("gap %d was %v, want >= %v", i, gap, interval)
		}
	}
}

func TestPacerCancelledContext(t *testing.T) {
	p := NewPacer(time.Hour)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait = %v, want context.DeadlineExceeded", err)
	}
}
