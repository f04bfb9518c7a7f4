package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if !IsNop(h.WithAttrs([]slog.Attr{slog.String("key", "val")})) {
		t.Error("WithAttrs lost the nop handler")
	}
	if !IsNop(h.WithGroup("group")) {
		t.Error("WithGroup lost the nop handler")
	}
}

func TestSet(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { Set(orig) })

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	Set(custom)
	if Logger() != custom {
		t.Error("Logger() did not return the logger passed to Set")
	}
	if IsNop(Logger().Handler()) {
		t.Error("custom handler reported as nop")
	}

	Set(nil)
	if !IsNop(Logger().Handler()) {
		t.Errorf("Set(nil) handler = %T, want nop handler", Logger().Handler())
	}
}

func BenchmarkDisabledLog(b *testing.B) {
	l := NewNop()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}
