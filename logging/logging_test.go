package logging

import (
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf strings.Builder
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")
	l.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below min level leaked: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "also shown") {
		t.Errorf("expected warn and error lines, got: %s", out)
	}
}

func TestComponentAndRequestScoping(t *testing.T) {
	var buf strings.Builder
	l := New()
	l.SetOutput(&buf)

	l.WithComponent("httpapi").WithRequestID("req-42").Info("served", map[string]interface{}{
		"status": 200,
	})

	out := buf.String()
	for _, want := range []string{"[httpapi]", "request_id=req-42", "status=200", "served"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in line %q", want, out)
		}
	}

	// Scoping returns copies; the root logger is untouched.
	buf.Reset()
	l.Info("root")
	if strings.Contains(buf.String(), "httpapi") {
		t.Error("root logger picked up child component")
	}
}

func TestFieldsAreStableOrdered(t *testing.T) {
	var buf strings.Builder
	l := New()
	l.SetOutput(&buf)

	l.Info("m", map[string]interface{}{"b": 2, "a": 1, "c": 3})

	out := buf.String()
	if !strings.Contains(out, "a=1 b=2 c=3") {
		t.Errorf("expected sorted fields, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
}
