package textcomp

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/textcomp/internal/logging"
	"github.com/gogpu/textcomp/surface"
)

// captureLogs installs a debug-level text logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
	if !logging.IsNop(l.Handler()) {
		t.Errorf("default handler = %T, want nop handler", l.Handler())
	}
}

func TestSetLoggerReachesSubPackages(t *testing.T) {
	buf := captureLogs(t)
	if logging.Logger() != Logger() {
		t.Fatal("SetLogger did not reach internal/logging")
	}

	b, cleanup := newSyntheticBackend(t, &spyBuilder{})
	defer cleanup()
	mustFlush(t, b, FramePresented)
	b.Destroy()

	out := buf.String()
	for _, want := range []string{
		"surface: synthetic configured",
		"textarget: allocated",
		"textcomp: backend created",
		"textcomp: backend destroyed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSkippedFramesLogWarnings(t *testing.T) {
	buf := captureLogs(t)
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := &scriptedPresenter{format: gputypes.TextureFormatBGRA8Unorm}
	b, err := New(device, queue, surface.NewLive(p), &spyBuilder{}, dims(64, 64),
		WithMaxAcquireFailures(2))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer b.Destroy()

	p.failing = true
	mustFlush(t, b, FrameSkipped)
	mustFlush(t, b, FrameSkipped)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "surface: acquire failed") {
		t.Errorf("expected acquire warning, got:\n%s", out)
	}
	if !strings.Contains(out, "textcomp: surface unavailable, reconfiguring") {
		t.Errorf("expected reconfigure warning, got:\n%s", out)
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	const goroutines = 50

	for range goroutines {
		wg.Add(2)
		go func() {
			defer wg.Done()
			logging.Logger().Debug("concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
