// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package postprocess

import (
	"math"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func compileFade(t *testing.T, cfg FadeConfig) (*Fade, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	in := testInputs(t, device, 32, 32)
	_, target := newTexture(t, device, 32, 32, in.Config.Format)

	p, err := NewFade(cfg, Options{}).Compile(device, in)
	if err != nil {
		cleanup()
		t.Fatalf("Compile failed: %v", err)
	}
	f := p.(*Fade)
	frame := func() {
		if err := encodeFrame(t, device, queue, f, in, target); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}
	t.Cleanup(func() {
		f.Destroy()
		cleanup()
	})
	return f, frame
}

func TestFadeNeedsUpdateUntilDone(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f, frame := compileFade(t, FadeConfig{
		From:     0,
		To:       1,
		Duration: time.Second,
		Clock:    clock.Now,
	})

	if !f.NeedsUpdate() {
		t.Fatal("NeedsUpdate() = false before the first frame")
	}

	frame()
	if f.Opacity() != 0 {
		t.Errorf("first frame opacity = %v, want 0", f.Opacity())
	}
	if !f.NeedsUpdate() {
		t.Fatal("NeedsUpdate() = false right after start")
	}

	clock.Advance(500 * time.Millisecond)
	frame()
	if math.Abs(float64(f.Opacity()-0.5)) > 1e-3 {
		t.Errorf("midway opacity = %v, want 0.5", f.Opacity())
	}
	if !f.NeedsUpdate() {
		t.Fatal("NeedsUpdate() = false midway")
	}

	clock.Advance(600 * time.Millisecond)
	frame()
	if f.Opacity() != 1 {
		t.Errorf("final opacity = %v, want 1", f.Opacity())
	}
	if f.NeedsUpdate() {
		t.Error("NeedsUpdate() = true after the animation finished")
	}
	if !f.Done() {
		t.Error("Done() = false after the animation finished")
	}

	// Further frames keep the final value.
	clock.Advance(time.Second)
	frame()
	if f.Opacity() != 1 {
		t.Errorf("opacity after finish = %v, want 1", f.Opacity())
	}
}

func TestFadeRestart(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	f, frame := compileFade(t, FadeConfig{
		From:     1,
		To:       0,
		Duration: 100 * time.Millisecond,
		Clock:    clock.Now,
	})

	frame()
	clock.Advance(time.Second)
	frame()
	if !f.Done() {
		t.Fatal("fade did not finish")
	}

	f.Restart()
	if !f.NeedsUpdate() {
		t.Error("NeedsUpdate() = false after Restart")
	}
	if f.Opacity() != 1 {
		t.Errorf("opacity after Restart = %v, want 1", f.Opacity())
	}
}

func TestFadeZeroDuration(t *testing.T) {
	f, frame := compileFade(t, FadeConfig{From: 0, To: 0.75})

	frame()
	if f.Opacity() != 0.75 {
		t.Errorf("opacity = %v, want 0.75", f.Opacity())
	}
	if f.NeedsUpdate() {
		t.Error("zero-duration fade still needs updates")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{-0.5, 0}, {0, 0}, {0.3, 0.3}, {1, 1}, {1.7, 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
